package integrators

import (
	"math"
	"testing"

	"github.com/fusionsim/gcorbit/internal/motion"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Dim() int { return 2 }

func (h *harmonicOscillator) Derive(x motion.State, t float64) motion.State {
	return motion.State{x[1], -x[0]}
}

func (h *harmonicOscillator) energy(x motion.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_EnergyConservation(t *testing.T) {
	r := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := motion.State{1.0, 0.0}

	grid := motion.TimeGrid(100, 10000)
	traj, err := r.Integrate(dyn, x0, grid, motion.Options{RelTol: 1e-8, AbsTol: 1e-12})
	if err != nil {
		t.Fatal(err)
	}

	last, _ := traj.Last()
	drift := math.Abs(dyn.energy(last)-dyn.energy(x0)) / dyn.energy(x0)
	if drift > 1e-6 {
		t.Errorf("energy drift %e over 100 periods-ish", drift)
	}
}

func TestRK45_DenseOutputOnGrid(t *testing.T) {
	r := NewRK45()
	dyn := &harmonicOscillator{}

	grid := motion.TimeGrid(2*math.Pi, 64)
	traj, err := r.Integrate(dyn, motion.State{1, 0}, grid, motion.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if traj.Len() != len(grid) {
		t.Fatalf("recorded %d samples for a %d-point grid", traj.Len(), len(grid))
	}
	for i, tm := range traj.Times {
		if tm != grid[i] {
			t.Fatalf("sample %d at t=%f, want grid time %f", i, tm, grid[i])
		}
		// Exact solution is (cos t, -sin t).
		if math.Abs(traj.States[i][0]-math.Cos(tm)) > 1e-6 {
			t.Fatalf("sample %d: x=%f, want cos(%f)=%f", i, traj.States[i][0], tm, math.Cos(tm))
		}
	}
}

func TestRK45_CallbackHalts(t *testing.T) {
	r := NewRK45()
	dyn := &harmonicOscillator{}

	calls := 0
	traj, err := r.Integrate(dyn, motion.State{1, 0}, motion.TimeGrid(10, 1000), motion.Options{
		RelTol: 1e-8, AbsTol: 1e-12,
		Callback: func(x motion.State, tm float64) bool {
			calls++
			return calls < 5
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Errorf("callback ran %d times, want 5", calls)
	}
	if traj.Len() != 5 {
		t.Errorf("trajectory has %d samples after halt, want 5", traj.Len())
	}
}

func TestRK45_EmptyGrid(t *testing.T) {
	r := NewRK45()
	_, err := r.Integrate(&harmonicOscillator{}, motion.State{1, 0}, []float64{0}, motion.DefaultOptions())
	if err == nil {
		t.Error("expected error for single-point grid")
	}
}

func TestRK4_Step(t *testing.T) {
	r := NewRK4()
	dyn := &harmonicOscillator{}

	x := motion.State{1.0, 0.0}
	dt := 0.001
	for i := 0; i < 1000; i++ {
		x = r.Step(dyn, x, float64(i)*dt, dt)
	}

	if math.Abs(x[0]-math.Cos(1.0)) > 1e-9 {
		t.Errorf("x(1) = %f, want cos(1) = %f", x[0], math.Cos(1.0))
	}
}

func TestRK4_Integrate(t *testing.T) {
	r := NewRK4()
	dyn := &harmonicOscillator{}

	traj, err := r.Integrate(dyn, motion.State{1, 0}, motion.TimeGrid(1, 1000), motion.Options{})
	if err != nil {
		t.Fatal(err)
	}
	last, tm := traj.Last()
	if tm != 1.0 {
		t.Errorf("final time %f, want 1", tm)
	}
	if math.Abs(last[0]-math.Cos(1.0)) > 1e-9 {
		t.Errorf("x(1) = %f", last[0])
	}
}
