package storage

import (
	"testing"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

func traceSample(t *testing.T) (coords.EPRCoordinate, *orbit.Orbit) {
	t.Helper()
	eq := equilibrium.NewSolovev()
	c := coords.NewEPRD(80.0, 0.7, 1.8, 0.0)
	o, err := orbit.NewTracer(eq, orbit.DefaultTraceOptions()).Trace(c)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	return c, o
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c, o := traceSample(t)

	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	id, err := s.Save("solovev", c, o, map[string]float64{"energy_drift": 1e-8})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.ID != id {
		t.Errorf("loaded ID %q, want %q", meta.ID, id)
	}
	if meta.Energy != c.Energy || meta.Pitch != c.Pitch {
		t.Errorf("loaded particle (%g, %g), want (%g, %g)", meta.Energy, meta.Pitch, c.Energy, c.Pitch)
	}
	if meta.Samples != o.Len() {
		t.Errorf("loaded %d samples, want %d", meta.Samples, o.Len())
	}
	if meta.Complete != o.Complete() {
		t.Errorf("loaded complete=%v, want %v", meta.Complete, o.Complete())
	}
	if meta.Metrics["energy_drift"] != 1e-8 {
		t.Errorf("metric not round-tripped: %v", meta.Metrics)
	}

	samples, err := s.LoadSamples(id)
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}
	if len(samples.R) != o.Len() {
		t.Fatalf("loaded %d sample rows, want %d", len(samples.R), o.Len())
	}
	rs := o.R()
	for i := range rs {
		if diff := samples.R[i] - rs[i]; diff > 1e-8 || diff < -1e-8 {
			t.Fatalf("sample %d r=%g, want %g", i, samples.R[i], rs[i])
		}
	}
}

func TestListEmptyAndPopulated(t *testing.T) {
	s := New(t.TempDir())

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	c, o := traceSample(t)
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.Save("solovev", c, o, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save("solovev", c, o, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run IDs must be unique")
	}
}

func TestLoadMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("no-such-run"); err == nil {
		t.Error("expected an error loading a missing run")
	}
}
