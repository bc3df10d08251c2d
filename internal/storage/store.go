// Package storage keeps simulation runs on disk, one directory per run.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/sim"
)

const metadataFile = "metadata.json"

var ErrChecksumMismatch = errors.New("storage: trajectory checksum mismatch")

type Store struct {
	baseDir string
	log     *zap.Logger
}

func New(baseDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

// RunDir is where the run called name lives.
func (s *Store) RunDir(name string) string {
	return filepath.Join(s.baseDir, name)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	TimeStep  float64            `json:"time_step"`
	Duration  float64            `json:"duration"`
	Ticks     int                `json:"ticks"`
	Movers    int                `json:"movers"`
	Checksum  string             `json:"checksum"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save flushes rec into the run directory and writes its metadata next to
// the stream files. Saving under an existing name replaces that run's files.
func (s *Store) Save(sum sim.Summary, duration float64, rec *output.Recorder) (*RunMetadata, error) {
	if err := rec.Flush(s.RunDir(sum.Name)); err != nil {
		return nil, err
	}
	return s.SaveMetadata(sum, duration, rec.Checksum())
}

// SaveMetadata writes metadata.json for a run whose streams are already on
// disk.
func (s *Store) SaveMetadata(sum sim.Summary, duration float64, checksum uint64) (*RunMetadata, error) {
	runDir := s.RunDir(sum.Name)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	meta := &RunMetadata{
		ID:        uuid.NewString(),
		Name:      sum.Name,
		Timestamp: time.Now(),
		TimeStep:  sum.TimeStep,
		Duration:  duration,
		Ticks:     sum.Ticks,
		Movers:    sum.Movers,
		Checksum:  formatChecksum(checksum),
		Metrics:   sum.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return nil, err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}

	s.log.Info("saved run", zap.String("name", meta.Name), zap.String("id", meta.ID), zap.String("dir", runDir))
	return meta, nil
}

// List returns the metadata of every stored run, sorted by name. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run dir", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Name < runs[j].Name })
	return runs, nil
}

func (s *Store) Load(name string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(name), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectories(name string) ([]output.Trajectory, error) {
	f, err := os.Open(s.streamPath(name, output.StreamTrajectories))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return output.ParseTrajectories(f)
}

// LoadPaths returns the run's paths and lines. A run without a paths stream
// has neither.
func (s *Store) LoadPaths(name string) ([]output.Polyline, []output.Segment, error) {
	f, err := os.Open(s.streamPath(name, output.StreamPaths))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()
	return output.ParsePaths(f)
}

// Verify recomputes the trajectories checksum and compares it with the
// stored metadata.
func (s *Store) Verify(name string) (*RunMetadata, error) {
	meta, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.streamPath(name, output.StreamTrajectories))
	if err != nil {
		return nil, err
	}
	if got := formatChecksum(xxhash.Sum64(data)); got != meta.Checksum {
		return meta, fmt.Errorf("%w: run %s has %s, metadata says %s", ErrChecksumMismatch, name, got, meta.Checksum)
	}
	return meta, nil
}

func (s *Store) streamPath(name, stream string) string {
	return filepath.Join(s.RunDir(name), stream+".txt")
}

func formatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
