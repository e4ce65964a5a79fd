package storage

import (
	"testing"

	"github.com/vortexlabs/talaria/internal/reactor"
	"github.com/vortexlabs/talaria/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{
				Time:             0,
				Position:         reactor.Vec3{X: 0.05},
				FilamentLength:   1e-9,
				PowerInput:       0,
				TargetVelocity:   0,
				VerticalVelocity: 0,
				VaporRadius:      0,
				Tension:          0,
			},
			{
				Time:             0.5,
				Position:         reactor.Vec3{X: 0.049, Y: 0.002, Z: 0.0001},
				FilamentLength:   4e-5,
				PowerInput:       42.5,
				TargetVelocity:   1e-5,
				VerticalVelocity: 9.7e-6,
				VaporRadius:      2.1e-6,
				Tension:          3.3e-9,
				Broke:            true,
			},
		},
		Metrics:    map[string]float64{"tracking_error": 1.5e-5},
		StepsTaken: 1000,
		Breaks:     1,
		MaxLength:  4e-5,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save("precision", 0.0005, 0.5, 99, testResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Profile != "precision" || meta.Seed != 99 || meta.Breaks != 1 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["tracking_error"] != 1.5e-5 {
		t.Errorf("metrics not persisted: %+v", meta.Metrics)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}
	want := testResult().Samples
	if len(samples) != len(want) {
		t.Fatalf("samples = %d, want %d", len(samples), len(want))
	}
	for i := range samples {
		if samples[i] != want[i] {
			t.Errorf("sample %d mismatch:\n got %+v\nwant %+v", i, samples[i], want[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := st.Save("precision", 0.0005, 0.5, 1, testResult()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := st.Save("robust", 0.0005, 0.5, 2, testResult()); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("runs = %d, want 2", len(runs))
	}
}

func TestStoreListEmpty(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreExport(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save("robust", 0.0005, 0.5, 7, testResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	export, err := st.Export(runID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.Meta.ID != runID || len(export.Samples) != 2 {
		t.Errorf("export mismatch: %+v", export.Meta)
	}
}

func TestStoreLoadUnknown(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}
