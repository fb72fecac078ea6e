package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/planetsim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyMetadata struct {
	Name string  `json:"name"`
	Mass float64 `json:"mass"`
}

// RunMetadata describes a stored run. Runs are analysis artefacts and are
// never used as the initial state of a new run.
type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	G           float64            `json:"g"`
	Precision   string             `json:"precision"`
	Mutual      bool               `json:"mutual"`
	Attractor   BodyMetadata       `json:"attractor"`
	Orbiter     BodyMetadata       `json:"orbiter"`
	Steps       int                `json:"steps"`
	Samples     int                `json:"samples"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Record is one row of states.csv.
type Record struct {
	Time         float64
	Step         int
	AttractorPos mgl64.Vec3
	AttractorVel mgl64.Vec3
	OrbiterPos   mgl64.Vec3
	OrbiterVel   mgl64.Vec3
}

// Separation is the distance between the bodies in this record.
func (r Record) Separation() float64 {
	return r.OrbiterPos.Sub(r.AttractorPos).Len()
}

var csvHeader = []string{
	"time", "step",
	"ax", "ay", "az", "avx", "avy", "avz",
	"ox", "oy", "oz", "ovx", "ovy", "ovz",
	"r",
}

// Save writes metadata.json and states.csv under a fresh run directory and
// returns the run ID. meta.ID, Timestamp, Steps, Samples, EnergyDrift and
// Metrics are filled from result.
func (s *Store) Save(name string, meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; exists(runDir); n++ {
		runID = fmt.Sprintf("%s_%d_%d", name, now.UnixMilli(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Samples = len(result.Samples)
	meta.EnergyDrift = result.EnergyDrift
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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadRecords reads states.csv for runID.
func (s *Store) LoadRecords(runID string) ([]Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read states for %s: %w", runID, err)
	}
	if len(rows) < 2 {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("states for %s line %d: %w", runID, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes result.Samples in the states.csv layout.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, 0, len(csvHeader))
	for i := range result.Samples {
		s := &result.Samples[i]
		row = row[:0]
		row = append(row, formatFloat(s.Time), strconv.Itoa(s.Step))
		row = appendVec(row, s.Attractor.Position())
		row = appendVec(row, s.Attractor.Velocity())
		row = appendVec(row, s.Orbiter.Position())
		row = appendVec(row, s.Orbiter.Velocity())
		row = append(row, formatFloat(s.Separation()))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func parseRecord(row []string) (Record, error) {
	var vals [15]float64
	for i, field := range row {
		if i == 1 {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Record{}, fmt.Errorf("column %s: %w", csvHeader[i], err)
		}
		vals[i] = v
	}
	step, err := strconv.Atoi(row[1])
	if err != nil {
		return Record{}, fmt.Errorf("column step: %w", err)
	}

	return Record{
		Time:         vals[0],
		Step:         step,
		AttractorPos: mgl64.Vec3{vals[2], vals[3], vals[4]},
		AttractorVel: mgl64.Vec3{vals[5], vals[6], vals[7]},
		OrbiterPos:   mgl64.Vec3{vals[8], vals[9], vals[10]},
		OrbiterVel:   mgl64.Vec3{vals[11], vals[12], vals[13]},
	}, nil
}

func appendVec(row []string, v mgl64.Vec3) []string {
	return append(row, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
