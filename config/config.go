package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"musashi/game"
	"musashi/meta"
	"musashi/table"
)

// Config describes one tablebase run.
type Config struct {
	Size        int    `yaml:"size"`
	Variant     int    `yaml:"variant"`
	Goroutines  int    `yaml:"goroutines"`
	BlockSize   int    `yaml:"blockSize"`
	MaxPly      int    `yaml:"maxPly"`
	MaxBlockers int    `yaml:"maxBlockers"` // negative means no limit
	Dir         string `yaml:"dir"`
	Compress    bool   `yaml:"compress"`
	Resume      bool   `yaml:"resume"`
	MetricsDir  string `yaml:"metricsDir"` // empty disables metrics files
}

func Default() Config {
	return Config{
		Size:        meta.BOARD_SIZE,
		Variant:     int(game.CaptureAnywhere),
		Goroutines:  min(meta.GO_ROUTINES, runtime.NumCPU()),
		BlockSize:   meta.BLOCK_SIZE,
		MaxPly:      meta.MAX_PLY,
		MaxBlockers: -1,
		Dir:         meta.OUTPUT_DIR,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := game.TopologyFor(c.Size); err != nil {
		errs = append(errs, err)
	}
	if !game.Variant(c.Variant).Valid() {
		errs = append(errs, fmt.Errorf("unknown capture variant %d", c.Variant))
	}
	if c.Goroutines < 1 {
		errs = append(errs, fmt.Errorf("goroutines must be positive, got %d", c.Goroutines))
	}
	if c.BlockSize <= 0 || c.BlockSize%64 != 0 {
		errs = append(errs, fmt.Errorf("block size must be a positive multiple of 64, got %d", c.BlockSize))
	}
	if c.MaxPly < 1 || c.MaxPly > table.MaxPly {
		errs = append(errs, fmt.Errorf("max ply must be within [1, %d], got %d", table.MaxPly, c.MaxPly))
	}
	if c.Dir == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}
	return errors.Join(errs...)
}

// Topology and Rules resolve the board and capture rule of a valid config.
func (c Config) Topology() (*game.Topology, error) {
	return game.TopologyFor(c.Size)
}

func (c Config) Rules(t *game.Topology) (*game.StandardRules, error) {
	return game.NewVariantRules(t, game.Variant(c.Variant))
}

func (c Config) Store() *table.CheckpointStore {
	var options []table.StoreOption
	if c.Compress {
		options = append(options, table.WithCompression())
	}
	return table.NewCheckpointStore(c.Dir, c.Size, game.Variant(c.Variant), options...)
}

// Write saves the config as YAML, e.g. next to the tables it produced.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
