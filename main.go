package main

import "musashi/cmd"

func main() {
	cmd.Execute()
}
