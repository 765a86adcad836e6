package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

// Store persists traced orbits under a base directory, one subdirectory
// per run holding metadata.json and samples.csv.
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
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Equilibrium  string             `json:"equilibrium"`
	Energy       float64            `json:"energy_kev"`
	Pitch        float64            `json:"pitch"`
	R            float64            `json:"r"`
	Z            float64            `json:"z"`
	Amu          float64            `json:"amu"`
	Charge       int                `json:"charge"`
	Complete     bool               `json:"complete"`
	HitsBoundary bool               `json:"hits_boundary"`
	Samples      int                `json:"samples"`
	Period       float64            `json:"period"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes one traced orbit and returns its run ID.
func (s *Store) Save(eqName string, c coords.EPRCoordinate, o *orbit.Orbit, metrics map[string]float64) (string, error) {
	runID := uuid.New().String()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Timestamp:    time.Now(),
		Equilibrium:  eqName,
		Energy:       c.Energy,
		Pitch:        c.Pitch,
		R:            c.R,
		Z:            c.Z,
		Amu:          c.Amu,
		Charge:       c.Charge,
		Complete:     o.Complete(),
		HitsBoundary: o.HitsBoundary(),
		Samples:      o.Len(),
		Period:       o.Period(),
		Metrics:      metrics,
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

	csvPath := filepath.Join(runDir, "samples.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "r", "z", "phi", "dt"}); err != nil {
		return "", err
	}

	rs, zs, phis := o.R(), o.Z(), o.Phi()
	dts := o.Intervals()
	times := o.Times()
	for i := range rs {
		row := []string{
			strconv.FormatFloat(times[i], 'e', 9, 64),
			strconv.FormatFloat(rs[i], 'f', 9, 64),
			strconv.FormatFloat(zs[i], 'f', 9, 64),
			strconv.FormatFloat(phis[i], 'f', 9, 64),
			strconv.FormatFloat(dts[i], 'e', 9, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
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
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Samples holds the poloidal projection of a stored orbit.
type Samples struct {
	Times []float64
	R     []float64
	Z     []float64
	Phi   []float64
	Dt    []float64
}

func (s *Store) LoadSamples(runID string) (*Samples, error) {
	csvPath := filepath.Join(s.baseDir, runID, "samples.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &Samples{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 5 {
			return nil, fmt.Errorf("storage: run %s row %d has %d columns, want 5", runID, i, len(record))
		}

		vals := make([]float64, 5)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s row %d: %w", runID, i, err)
			}
			vals[j] = v
		}

		out.Times = append(out.Times, vals[0])
		out.R = append(out.R, vals[1])
		out.Z = append(out.Z, vals[2])
		out.Phi = append(out.Phi, vals[3])
		out.Dt = append(out.Dt, vals[4])
	}

	return out, nil
}
