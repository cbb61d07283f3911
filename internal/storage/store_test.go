package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
)

func testResult() *dynamo.Result {
	return &dynamo.Result{
		Samples: []dynamo.Sample{
			{Time: 0, Balls: 20, Sparks: 0, KineticEnergy: 12.5, MaxSpeed: 1.2},
			{Time: 0.01, Balls: 20, Sparks: 15, KineticEnergy: 12.25, MaxSpeed: 1.3, Collisions: 1},
		},
		Metrics:    map[string]float64{"energy": 1.5},
		StepsTaken: 1,
		Collisions: 1,
		Checksum:   0xdeadbeef,
		Errors:     []error{dynamo.SimError{Step: 1, Time: 0.01, Message: "boom"}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Name: "chaos", Seed: 42, Dt: 0.01, Duration: 1, Scene: *physics.DefaultScene()}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "chaos_") {
		t.Errorf("expected run id prefixed with name, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}
	if meta.Scene.Gravity != -9.8 {
		t.Errorf("expected scene gravity -9.8, got %f", meta.Scene.Gravity)
	}
	if meta.Steps != 1 || meta.Collisions != 1 {
		t.Errorf("unexpected totals: steps=%d collisions=%d", meta.Steps, meta.Collisions)
	}
	if meta.Checksum != "00000000deadbeef" {
		t.Errorf("expected checksum 00000000deadbeef, got %q", meta.Checksum)
	}
	if len(meta.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %d", len(meta.Errors))
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1] != testResult().Samples[1] {
		t.Errorf("sample mismatch: %+v", samples[1])
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", runs, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := st.Save(RunMetadata{Name: "run"}, testResult()); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, dynamo.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("nope"); !errors.Is(err, dynamo.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreEmptySamples(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{}, &dynamo.Result{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadSamples(runID); !errors.Is(err, dynamo.ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Name: "export"}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != runID || data.Steps != 2 {
		t.Errorf("unexpected export: id=%s steps=%d", data.Run.ID, data.Steps)
	}
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Name: "export"}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,balls,sparks,kinetic_energy,max_speed,collisions" {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestReadCSVSkipsMalformed(t *testing.T) {
	in := "time,balls,sparks,kinetic_energy,max_speed,collisions\n0.1,2,3,4,5,6\nbad,row\n0.2,x,3,4,5,6\n"
	samples, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Errorf("expected 1 sample, got %d", len(samples))
	}
}
