package integrators

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/motion"
)

// Dormand-Prince 5(4) tableau.
var (
	dpNodes = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}

	dpCoeffs = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}

	dpWeights = [7]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0}

	dpErrWeights = [7]float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	}
)

// RK45 is an adaptive Dormand-Prince integrator with dense output on a
// caller-supplied time grid. Instances carry no per-run state and are safe
// for concurrent use.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	hMin     float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		hMin:     1e-16,
	}
}

// stages runs one Dormand-Prince step of size h and returns the 5th-order
// result with its error estimate scaled by the tolerances.
func (r *RK45) stages(f motion.VectorField, x motion.State, t, h, relTol, absTol float64) (motion.State, float64) {
	n := len(x)
	var k [7]motion.State

	k[0] = f.Derive(x, t)
	xs := make(motion.State, n)
	for s := 1; s < 7; s++ {
		for i := 0; i < n; i++ {
			acc := x[i]
			for j := 0; j < s; j++ {
				acc += h * dpCoeffs[s][j] * k[j][i]
			}
			xs[i] = acc
		}
		k[s] = f.Derive(xs, t+dpNodes[s]*h)
	}

	xNew := make(motion.State, n)
	for i := 0; i < n; i++ {
		acc := x[i]
		for s := 0; s < 7; s++ {
			acc += h * dpWeights[s] * k[s][i]
		}
		xNew[i] = acc
	}

	errRatio := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for s := 0; s < 7; s++ {
			est += h * dpErrWeights[s] * k[s][i]
		}
		scale := absTol + relTol*(math.Abs(x[i])+math.Abs(h*k[0][i]))
		errRatio = math.Max(errRatio, math.Abs(est)/scale)
	}

	return xNew, errRatio
}

// Step advances by a single fixed step, ignorant of the error estimate.
func (r *RK45) Step(f motion.VectorField, x motion.State, t, dt float64) motion.State {
	xNew, _ := r.stages(f, x, t, dt, 1e-6, 1e-9)
	return xNew
}

// Integrate advances x0 across the grid, adapting internal substeps to the
// requested tolerances and recording the state at every grid time. The
// callback (when set) runs once per recorded sample; returning false halts
// the run after that sample.
func (r *RK45) Integrate(f motion.VectorField, x0 motion.State, grid []float64, opts motion.Options) (*motion.Trajectory, error) {
	if len(grid) < 2 {
		return nil, motion.ErrEmptyGrid
	}
	relTol, absTol := opts.RelTol, opts.AbsTol
	if relTol <= 0 {
		relTol = motion.DefaultOptions().RelTol
	}
	if absTol <= 0 {
		absTol = motion.DefaultOptions().AbsTol
	}

	traj := &motion.Trajectory{
		States: make([]motion.State, 0, len(grid)),
		Times:  make([]float64, 0, len(grid)),
	}

	x := x0.Clone()
	traj.States = append(traj.States, x.Clone())
	traj.Times = append(traj.Times, grid[0])
	if opts.Callback != nil && !opts.Callback(x.Clone(), grid[0]) {
		return traj, nil
	}

	h := grid[1] - grid[0]

	for gi := 1; gi < len(grid); gi++ {
		t := grid[gi-1]
		target := grid[gi]

		for t < target {
			step := math.Min(h, target-t)

			xNew, errRatio := r.stages(f, x, t, step, relTol, absTol)

			if errRatio > 1 && step > r.hMin {
				// Reject and shrink.
				h = step * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
				continue
			}

			x = xNew
			t += step

			if errRatio > 0 {
				h = step * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			} else {
				h = step * r.maxScale
			}
			if h < r.hMin {
				return traj, motion.StepError{Step: gi, Time: t, Message: motion.ErrStepTooSmall.Error()}
			}
		}

		if !x.IsValid() {
			return traj, motion.StepError{Step: gi, Time: t, Message: motion.ErrInvalidState.Error()}
		}

		traj.States = append(traj.States, x.Clone())
		traj.Times = append(traj.Times, target)
		if opts.Callback != nil && !opts.Callback(x.Clone(), target) {
			return traj, nil
		}
	}

	return traj, nil
}
