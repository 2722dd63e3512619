package table

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"musashi/game"
)

// MaxPly bounds the number of snapshots and the values of the merged table.
const MaxPly = 255

// CheckpointStore keeps one cumulative snapshot per ply. Odd plies hold the
// hunted-to-move table, even plies the blockers-to-move table.
type CheckpointStore struct {
	dir      string
	size     int
	variant  game.Variant
	compress bool
}

type StoreOption func(s *CheckpointStore)

// WithCompression stores snapshots as zstd streams.
func WithCompression() StoreOption {
	return func(s *CheckpointStore) {
		s.compress = true
	}
}

func NewCheckpointStore(dir string, size int, variant game.Variant, options ...StoreOption) *CheckpointStore {
	s := &CheckpointStore{
		dir:     dir,
		size:    size,
		variant: variant,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *CheckpointStore) Dir() string {
	return s.dir
}

// PlyTurn is the side to move in the table of the given ply.
func PlyTurn(ply int) game.Player {
	if ply%2 == 1 {
		return game.Hunted
	}
	return game.Blockers
}

func (s *CheckpointStore) Path(ply int) string {
	prefix := "hunted"
	if PlyTurn(ply) == game.Blockers {
		prefix = "blockers"
	}
	name := fmt.Sprintf("%s_%d_%d_%d.bin", prefix, s.size, int(s.variant), ply)
	if s.compress {
		name += ".zst"
	}
	return filepath.Join(s.dir, name)
}

// TablePath is where the merged table goes.
func (s *CheckpointStore) TablePath() string {
	return filepath.Join(s.dir, fmt.Sprintf("table_%d_%d.bin", s.size, int(s.variant)))
}

func (s *CheckpointStore) Exists(ply int) bool {
	_, err := os.Stat(s.Path(ply))
	return err == nil
}

// Limit returns the first ply without a snapshot.
func (s *CheckpointStore) Limit() int {
	for ply := 1; ply <= MaxPly; ply++ {
		if !s.Exists(ply) {
			return ply
		}
	}
	return MaxPly + 1
}

// Save writes the snapshot through a temporary file so that a crash never
// leaves a truncated ply behind.
func (s *CheckpointStore) Save(ply int, bits *Bits) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	path := s.Path(ply)
	f, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := s.write(f, bits); err != nil {
		f.Close()
		return fmt.Errorf("failed to write ply %d: %w", ply, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close ply %d: %w", ply, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to publish ply %d: %w", ply, err)
	}
	return nil
}

func (s *CheckpointStore) write(w io.Writer, bits *Bits) error {
	if !s.compress {
		_, err := bits.WriteTo(w)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := bits.WriteTo(enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Open streams the packed bytes of a snapshot.
func (s *CheckpointStore) Open(ply int) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(ply))
	if err != nil {
		return nil, fmt.Errorf("failed to open ply %d: %w", ply, err)
	}
	if !s.compress {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decompress ply %d: %w", ply, err)
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}

// Load reads the snapshot of a ply holding n bits.
func (s *CheckpointStore) Load(ply int, n uint64) (*Bits, error) {
	r, err := s.Open(ply)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	bits := NewBits(n)
	if _, err := bits.ReadFrom(r); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: ply %d is shorter than %d bits", ErrTableSize, ply, n)
		}
		return nil, fmt.Errorf("failed to load ply %d: %w", ply, err)
	}
	return bits, nil
}

// Remove deletes every snapshot of the store.
func (s *CheckpointStore) Remove() error {
	for ply := 1; ply <= MaxPly; ply++ {
		if err := os.Remove(s.Path(ply)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove ply %d: %w", ply, err)
		}
	}
	return nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
