package experiments

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"musashi/game"
	"musashi/meta"
	"musashi/metrics"
	"musashi/solver"
)

var ErrInconsistentRuns = errors.New("runs resolved different numbers of positions")

// ScalingConfigs doubles the worker count from 1 up to maxGoroutines.
func ScalingConfigs(maxGoroutines, blockSize int) []metrics.RunConfig {
	configs := []metrics.RunConfig{}
	for g, id := 1, 1; g <= maxGoroutines; g, id = g*2, id+1 {
		configs = append(configs, metrics.RunConfig{ID: id, Goroutines: g, BlockSize: blockSize})
	}
	return configs
}

// RunScalingExperiment solves the board once per config and repeat, in
// memory, and writes the configs and the timings under root/name. Every run
// must resolve the same positions in the same number of plies.
func RunScalingExperiment(name, root string, t *game.Topology, rules game.Rules, configs []metrics.RunConfig, repeats int) ([]metrics.RunRecord, error) {
	if len(configs) == 0 || repeats < 1 {
		return nil, fmt.Errorf("nothing to run: %d configs, %d repeats", len(configs), repeats)
	}

	records := []metrics.RunRecord{}
	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(configs), config)

		for i := 0; i < repeats; i++ {
			record, err := runOnce(t, rules, config)
			if err != nil {
				return records, err
			}
			record.Repeat = i + 1
			records = append(records, record)

			log.Info().
				Int("plies", record.Plies).
				Int64("resolved", record.Resolved).
				Dur("duration", record.Duration).
				Msgf("completed config %d of %d repeat %d", ci+1, len(configs), i+1)
		}
	}

	first := records[0]
	for _, r := range records[1:] {
		if r.Resolved != first.Resolved || r.Plies != first.Plies {
			return records, fmt.Errorf("%w: config %d got %d in %d plies, config %d got %d in %d plies",
				ErrInconsistentRuns, first.Config, first.Resolved, first.Plies, r.Config, r.Resolved, r.Plies)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return records, err
	}
	if err := writer.WriteRunConfigs(configs); err != nil {
		return records, err
	}
	log.Info().Msg("stored run configs")

	if err := writer.WriteRunRecords(records); err != nil {
		return records, err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored run records")

	return records, nil
}

func runOnce(t *game.Topology, rules game.Rules, config metrics.RunConfig) (metrics.RunRecord, error) {
	blockSize := config.BlockSize
	if blockSize == 0 {
		blockSize = meta.BLOCK_SIZE
	}
	s := solver.NewSolver(t, config.Goroutines,
		solver.WithRules(rules),
		solver.WithBlockSize(blockSize),
		solver.WithMetrics(metrics.NewCollector()),
	)

	start := time.Now()
	result, err := s.Solve()
	if err != nil {
		return metrics.RunRecord{}, fmt.Errorf("config %d: %w", config.ID, err)
	}
	return metrics.RunRecord{
		Config:    config.ID,
		Plies:     result.Plies,
		Converged: result.Converged,
		Resolved:  lo.Sum(result.Marked),
		Duration:  time.Since(start),
	}, nil
}
