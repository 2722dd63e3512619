package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"musashi/table"
)

type Setup struct {
	RunID       string        `json:"runId"`
	Size        int           `json:"size"`
	Variant     int           `json:"variant"`
	Fold        bool          `json:"fold"`
	Goroutines  int           `json:"goroutines"`
	BlockSize   int           `json:"blockSize"`
	MaxPly      int           `json:"maxPly"`
	MaxBlockers int           `json:"maxBlockers"`
	Plies       int           `json:"plies"`
	Converged   bool          `json:"converged"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     time.Time     `json:"endTime"`
	Duration    time.Duration `json:"duration"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the run.
func NewWriter(root, runID string) (*Writer, error) {
	baseDir := filepath.Join(root, runID)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	setupPath := filepath.Join(w.baseDir, "setup.json")
	f, err := os.Create(setupPath)
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}

	return nil
}

func (w *Writer) WritePlyRecords(records []PlyMetric) error {
	path := filepath.Join(w.baseDir, "plies.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ply records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"ply", "turn", "goroutines", "start_time", "duration", "scanned", "marked"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write ply records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Ply),
			record.Turn.String(),
			strconv.Itoa(record.Goroutines),
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.FormatInt(record.Scanned, 10),
			strconv.FormatInt(record.Marked, 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write ply record row: %w", err)
		}
	}

	return nil
}

// WriteHistogram writes one row per blocker count: the unresolved positions
// per side to move, then the count of every value from 1 to the largest seen.
func (w *Writer) WriteHistogram(h *table.Histogram) error {
	path := filepath.Join(w.baseDir, "histogram.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create histogram file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	maxValue := h.MaxValue()
	header := []string{"blockers", "unresolved_hunted", "unresolved_blockers"}
	for v := 1; v <= maxValue; v++ {
		header = append(header, strconv.Itoa(v))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write histogram header: %w", err)
	}

	for c := range h.Counts {
		row := []string{
			strconv.Itoa(c),
			strconv.FormatInt(h.Unresolved[c][0], 10),
			strconv.FormatInt(h.Unresolved[c][1], 10),
		}
		for v := 1; v <= maxValue; v++ {
			row = append(row, strconv.FormatInt(h.Counts[c][v], 10))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write histogram row: %w", err)
		}
	}

	return nil
}

// RunConfig is one solver setting of a scaling experiment.
type RunConfig struct {
	ID         int
	Goroutines int
	BlockSize  int
}

type RunRecord struct {
	Config    int
	Repeat    int
	Plies     int
	Converged bool
	Resolved  int64
	Duration  time.Duration
}

func (w *Writer) WriteRunConfigs(configs []RunConfig) error {
	path := filepath.Join(w.baseDir, "configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "goroutines", "block_size"}); err != nil {
		return fmt.Errorf("failed to write run configs header: %w", err)
	}
	for _, c := range configs {
		row := []string{strconv.Itoa(c.ID), strconv.Itoa(c.Goroutines), strconv.Itoa(c.BlockSize)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write run config row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteRunRecords(records []RunRecord) error {
	path := filepath.Join(w.baseDir, "runs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"config", "repeat", "plies", "converged", "resolved", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write run records header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Config),
			strconv.Itoa(r.Repeat),
			strconv.Itoa(r.Plies),
			strconv.FormatBool(r.Converged),
			strconv.FormatInt(r.Resolved, 10),
			r.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write run record row: %w", err)
		}
	}

	return nil
}
