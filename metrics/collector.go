package metrics

import (
	"sync/atomic"
	"time"

	"musashi/game"
)

type PlyMetric struct {
	Ply        int
	Turn       game.Player
	Goroutines int
	StartTime  time.Time
	Duration   time.Duration
	Scanned    int64 // indices visited
	Marked     int64 // newly resolved at this ply
}

type Collector interface {
	Start(ply int, turn game.Player, goroutines int)
	AddScanned(n int64)
	AddMarked(n int64)
	Complete() PlyMetric
}

type collector struct {
	ply        int
	turn       game.Player
	goroutines int
	startTime  time.Time
	scanned    atomic.Int64
	marked     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(ply int, turn game.Player, goroutines int) {
	m.startTime = time.Now()
	m.ply = ply
	m.turn = turn
	m.goroutines = goroutines
	m.scanned.Store(0)
	m.marked.Store(0)
}

func (m *collector) AddScanned(n int64) {
	m.scanned.Add(n)
}

func (m *collector) AddMarked(n int64) {
	m.marked.Add(n)
}

func (m *collector) Complete() PlyMetric {
	return PlyMetric{
		Ply:        m.ply,
		Turn:       m.turn,
		Goroutines: m.goroutines,
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		Scanned:    m.scanned.Load(),
		Marked:     m.marked.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(ply int, turn game.Player, goroutines int) {}
func (m *dummyCollector) AddScanned(n int64)                              {}
func (m *dummyCollector) AddMarked(n int64)                               {}
func (m *dummyCollector) Complete() PlyMetric                             { return PlyMetric{} }
