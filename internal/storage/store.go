// Package storage persists demonstrations, fitted models, and
// reproduction runs under a data directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/movlab/motionprim/internal/motion"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Dims       int                `json:"dims"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes one reproduction run as a directory holding metadata.json
// and trajectory.csv, and returns the run ID.
func (s *Store) Save(name, integrator string, dt float64, metrics map[string]float64, tr *motion.Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   tr.Duration(),
		Dims:       tr.Dims(),
		Integrator: integrator,
		Metrics:    metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, tr); err != nil {
		return "", err
	}
	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
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

// LoadTrajectory reads a run's trajectory.csv back. Column split between
// positions and velocities follows the x/v header prefixes.
func (s *Store) LoadTrajectory(runID string) (*motion.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return &motion.Trajectory{}, nil
	}

	header := records[0]
	dims := 0
	for _, col := range header[1:] {
		if strings.HasPrefix(col, "x") {
			dims++
		}
	}
	if dims == 0 || len(header) != 1+2*dims {
		return nil, fmt.Errorf("storage: malformed trajectory header %v", header)
	}

	tr := &motion.Trajectory{
		Times:      make([]float64, 0, len(records)-1),
		States:     make([]motion.State, 0, len(records)-1),
		Velocities: make([]motion.State, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("storage: row has %d fields, want %d", len(rec), len(header))
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, err
		}
		pos := make(motion.State, dims)
		vel := make(motion.State, dims)
		for d := 0; d < dims; d++ {
			if pos[d], err = strconv.ParseFloat(rec[1+d], 64); err != nil {
				return nil, err
			}
			if vel[d], err = strconv.ParseFloat(rec[1+dims+d], 64); err != nil {
				return nil, err
			}
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, pos)
		tr.Velocities = append(tr.Velocities, vel)
	}
	return tr, nil
}
