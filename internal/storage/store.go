// Package storage persists recorded telemetry of completed headless runs:
// metadata plus the sampled energy/momentum/position series. It does not
// checkpoint live simulation state.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/orbitsim/internal/sim"
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
	Preset    string             `json:"preset"`
	Solver    string             `json:"solver"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	G         float64            `json:"g"`
	Theta     float64            `json:"theta"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Bodies    int                `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Series are the stored per-sample columns of one run.
type Series struct {
	Times    []float64
	Energy   []float64
	Momentum []float64
	// Tracked holds x/y/z of the tracked body, empty when tracking was off.
	Tracked [][3]float64
}

// Save writes <runID>/metadata.json and <runID>/series.csv under the base
// directory and returns the generated run ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

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

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	tracked := len(result.Tracked) == len(result.Times)

	header := []string{"time", "energy", "momentum"}
	if tracked {
		header = append(header, "x", "y", "z")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Energy[i]),
			formatFloat(result.Momentum[i]),
		}
		if tracked {
			p := result.Tracked[i]
			row = append(row, formatFloat(p.X()), formatFloat(p.Y()), formatFloat(p.Z()))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
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

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}

	tracked := len(records[0]) >= 6
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		e, _ := strconv.ParseFloat(record[1], 64)
		p, _ := strconv.ParseFloat(record[2], 64)

		series.Times = append(series.Times, t)
		series.Energy = append(series.Energy, e)
		series.Momentum = append(series.Momentum, p)

		if tracked && len(record) >= 6 {
			x, _ := strconv.ParseFloat(record[3], 64)
			y, _ := strconv.ParseFloat(record[4], 64)
			z, _ := strconv.ParseFloat(record[5], 64)
			series.Tracked = append(series.Tracked, [3]float64{x, y, z})
		}
	}

	return series, nil
}
