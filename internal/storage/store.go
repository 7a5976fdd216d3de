package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/bipedsim/internal/metrics"
)

var ErrRunNotFound = errors.New("bipedsim: run not found")

// Store persists finished runs.
type Store interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, meta RunMetadata, trace *metrics.Trace) (string, error)
	List(ctx context.Context) ([]RunMetadata, error)
	Load(ctx context.Context, runID string) (*RunMetadata, error)
	LoadTrace(ctx context.Context, runID string) (*metrics.Trace, error)
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Engine             string             `json:"engine"`
	Preset             string             `json:"preset,omitempty"`
	Timestamp          time.Time          `json:"timestamp"`
	Dt                 float64            `json:"dt"`
	Ticks              int                `json:"ticks"`
	Steps              int                `json:"steps"`
	K1                 float64            `json:"k1"`
	FMax               float64            `json:"fmax"`
	SelfContact        string             `json:"self_contact"`
	SelfCollision      bool               `json:"self_collision"`
	FirstSelfCollision int                `json:"first_self_collision"`
	Metrics            map[string]float64 `json:"metrics"`
}

// newRunID prefixes a random id with the engine name.
func newRunID(engine string) string {
	if engine == "" {
		engine = "run"
	}
	return fmt.Sprintf("%s_%s", engine, uuid.NewString())
}

// DirStore keeps each run in its own directory: metadata.json and
// joints.csv.
type DirStore struct {
	baseDir string
}

func NewDirStore(baseDir string) *DirStore {
	return &DirStore{baseDir: baseDir}
}

func (s *DirStore) Init(_ context.Context) error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *DirStore) Save(_ context.Context, meta RunMetadata, trace *metrics.Trace) (string, error) {
	if meta.ID == "" {
		meta.ID = newRunID(meta.Engine)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if trace == nil || trace.Len() == 0 {
		return meta.ID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, "joints.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTrace(csvFile, trace); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, newest first. Directories without a
// valid metadata.json are skipped.
func (s *DirStore) List(_ context.Context) ([]RunMetadata, error) {
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

		meta, err := s.readMeta(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sortRuns(runs)
	return runs, nil
}

func (s *DirStore) Load(_ context.Context, runID string) (*RunMetadata, error) {
	meta, err := s.readMeta(runID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return meta, err
}

func (s *DirStore) readMeta(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads joints.csv. A run saved without frames has an empty trace.
func (s *DirStore) LoadTrace(ctx context.Context, runID string) (*metrics.Trace, error) {
	if _, err := s.Load(ctx, runID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, "joints.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return metrics.NewTrace(), nil
		}
		return nil, err
	}
	defer file.Close()

	return ReadTrace(file)
}

func sortRuns(runs []RunMetadata) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
}
