package motion

import (
	"fmt"
	"math"
)

// State is a phase-space sample. For guiding-center motion the layout is
// [r, z, phi]: major radius (m), vertical position (m), toroidal angle (rad).
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// VectorField is an autonomous ODE right-hand side dX/dt = f(X, t).
type VectorField interface {
	Derive(x State, t float64) State
	Dim() int
}

// StepCallback runs once per accepted grid sample. Returning false halts
// the integration after the current sample is recorded.
type StepCallback func(x State, t float64) bool

// Options controls a grid integration run.
type Options struct {
	RelTol   float64
	AbsTol   float64
	Callback StepCallback
}

func DefaultOptions() Options {
	return Options{
		RelTol: 1e-8,
		AbsTol: 1e-12,
	}
}

// Trajectory holds the states sampled at the requested grid times, in step
// order. When a callback halts early, Times and States end at the halting
// sample.
type Trajectory struct {
	States []State
	Times  []float64
}

func (tr *Trajectory) Len() int { return len(tr.States) }

func (tr *Trajectory) Last() (State, float64) {
	n := len(tr.States)
	return tr.States[n-1], tr.Times[n-1]
}

// Integrator advances a vector field by a single fixed step.
type Integrator interface {
	Step(f VectorField, x State, t, dt float64) State
}

// GridIntegrator integrates over an explicit time grid with dense output at
// every grid point and an optional early-termination callback.
type GridIntegrator interface {
	Integrator
	Integrate(f VectorField, x0 State, grid []float64, opts Options) (*Trajectory, error)
}

// TimeGrid returns n+1 uniformly spaced times from 0 to tMax inclusive.
func TimeGrid(tMax float64, n int) []float64 {
	grid := make([]float64, n+1)
	dt := tMax / float64(n)
	for i := range grid {
		grid[i] = float64(i) * dt
	}
	return grid
}

// StepError wraps an error with the step at which integration failed.
type StepError struct {
	Step    int
	Time    float64
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4e): %s", e.Step, e.Time, e.Message)
}
