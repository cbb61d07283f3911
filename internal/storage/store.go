package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{"time", "balls", "sparks", "kinetic_energy", "max_speed", "collisions"}

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
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Scene      physics.Scene      `json:"scene"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	Consumed   int                `json:"consumed"`
	Checksum   string             `json:"checksum,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes a run directory and returns its id. The id, timestamp and
// result totals in meta are filled in here.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%s", meta.Name, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Collisions = result.Collisions
	meta.Consumed = result.Consumed
	if result.Checksum != 0 {
		meta.Checksum = fmt.Sprintf("%016x", result.Checksum)
	}
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	samples, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrNoSamples, runID)
	}
	return samples, nil
}

func WriteCSV(out io.Writer, samples []dynamo.Sample) error {
	w := csv.NewWriter(out)

	if err := w.Write(sampleHeader); err != nil {
		return err
	}

	for _, sm := range samples {
		row := []string{
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.Itoa(sm.Balls),
			strconv.Itoa(sm.Sparks),
			strconv.FormatFloat(sm.KineticEnergy, 'f', 6, 64),
			strconv.FormatFloat(sm.MaxSpeed, 'f', 6, 64),
			strconv.Itoa(sm.Collisions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses rows written by WriteCSV. Malformed rows are skipped.
func ReadCSV(in io.Reader) ([]dynamo.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []dynamo.Sample{}, nil
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		sm, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, sm)
	}

	return samples, nil
}

func parseSample(record []string) (dynamo.Sample, bool) {
	var sm dynamo.Sample
	if len(record) != len(sampleHeader) {
		return sm, false
	}

	var errs [6]error
	sm.Time, errs[0] = strconv.ParseFloat(record[0], 64)
	sm.Balls, errs[1] = strconv.Atoi(record[1])
	sm.Sparks, errs[2] = strconv.Atoi(record[2])
	sm.KineticEnergy, errs[3] = strconv.ParseFloat(record[3], 64)
	sm.MaxSpeed, errs[4] = strconv.ParseFloat(record[4], 64)
	sm.Collisions, errs[5] = strconv.Atoi(record[5])

	return sm, errors.Join(errs[:]...) == nil
}
