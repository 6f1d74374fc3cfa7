package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/sphfluid/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
	sceneFile    = "final.scene"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Timestamp       time.Time          `json:"timestamp"`
	SmoothingRadius float64            `json:"smoothing_radius"`
	Gravity         float64            `json:"gravity"`
	Particles       int                `json:"particles"`
	Duration        float64            `json:"duration"`
	FrameTime       float64            `json:"frame_time"`
	Workers         int                `json:"workers"`
	UseGrid         bool               `json:"use_grid"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json, stats.csv and
// final.scene, and returns the run ID.
func (s *Store) Save(meta RunMetadata, stats []metrics.Stats, finalScene string) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.Timestamp = s.now()

	runID, runDir, err := s.newRunDir(meta.Name, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStats(filepath.Join(runDir, statsFile), stats); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, sceneFile), []byte(finalScene), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", sceneFile, err)
	}
	return runID, nil
}

func (s *Store) newRunDir(name string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%s", name, ts.Format("20060102-150405"))
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeStats(path string, stats []metrics.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", statsFile, err)
	}
	defer f.Close()

	if stats == nil {
		stats = []metrics.Stats{}
	}
	if err := gocsv.MarshalFile(&stats, f); err != nil {
		return fmt.Errorf("writing %s: %w", statsFile, err)
	}
	return f.Close()
}

// List returns the saved runs, newest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadStats(runID string) ([]metrics.Stats, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stats []metrics.Stats
	if err := gocsv.UnmarshalFile(f, &stats); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []metrics.Stats{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", statsFile, err)
	}
	return stats, nil
}

func (s *Store) LoadScene(runID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, sceneFile))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
