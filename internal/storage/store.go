// Package storage persists completed runs: one directory per run with
// metadata.json and samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vortexlabs/talaria/internal/reactor"
	"github.com/vortexlabs/talaria/internal/sim"
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
	ID        string             `json:"id"`
	Profile   string             `json:"profile"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Breaks    int                `json:"breaks"`
	MaxLength float64            `json:"max_length"`
	Metrics   map[string]float64 `json:"metrics"`
}

var sampleHeader = []string{
	"time", "x", "y", "z", "length", "power",
	"target", "velocity", "vapor_radius", "tension", "broke",
}

// Save writes one run and returns its id.
func (s *Store) Save(profile string, dt, duration float64, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", profile, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Profile:   profile,
		Timestamp: time.Now(),
		Seed:      seed,
		Dt:        dt,
		Duration:  duration,
		Steps:     result.StepsTaken,
		Breaks:    result.Breaks,
		MaxLength: result.MaxLength,
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, sm := range result.Samples {
		row := []string{
			f(sm.Time),
			f(sm.Position.X), f(sm.Position.Y), f(sm.Position.Z),
			f(sm.FilamentLength), f(sm.PowerInput),
			f(sm.TargetVelocity), f(sm.VerticalVelocity),
			f(sm.VaporRadius), f(sm.Tension),
			strconv.FormatBool(sm.Broke),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return runID, w.Error()
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads back the sampled history of a run.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("empty samples file for %s", runID)
	}

	samples := make([]sim.Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(sampleHeader) {
			return nil, fmt.Errorf("malformed sample row in %s", runID)
		}
		vals := make([]float64, len(sampleHeader)-1)
		for i := range vals {
			vals[i], err = strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("parse sample in %s: %w", runID, err)
			}
		}
		broke, err := strconv.ParseBool(row[len(row)-1])
		if err != nil {
			return nil, fmt.Errorf("parse sample in %s: %w", runID, err)
		}
		samples = append(samples, sim.Sample{
			Time:             vals[0],
			Position:         reactor.Vec3{X: vals[1], Y: vals[2], Z: vals[3]},
			FilamentLength:   vals[4],
			PowerInput:       vals[5],
			TargetVelocity:   vals[6],
			VerticalVelocity: vals[7],
			VaporRadius:      vals[8],
			Tension:          vals[9],
			Broke:            broke,
		})
	}
	return samples, nil
}

// List returns metadata for all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip foreign directories
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Export writes metadata plus samples as one JSON document.
type Export struct {
	Meta    RunMetadata  `json:"meta"`
	Samples []sim.Sample `json:"samples"`
}

func (s *Store) Export(runID string) (*Export, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	return &Export{Meta: *meta, Samples: samples}, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
