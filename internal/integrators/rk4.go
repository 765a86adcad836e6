package integrators

import "github.com/fusionsim/gcorbit/internal/motion"

// RK4 is the classical fixed-step Runge-Kutta scheme. It trusts the grid
// spacing entirely; use RK45 when tolerance control matters.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(f motion.VectorField, x motion.State, t, dt float64) motion.State {
	n := len(x)

	k1 := f.Derive(x, t)

	scratch := make(motion.State, n)
	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := f.Derive(scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := f.Derive(scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*k3[i]
	}
	k4 := f.Derive(scratch, t+dt)

	result := make(motion.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}

// Integrate takes one fixed step per grid interval, recording each grid
// sample and honoring the early-termination callback.
func (r *RK4) Integrate(f motion.VectorField, x0 motion.State, grid []float64, opts motion.Options) (*motion.Trajectory, error) {
	if len(grid) < 2 {
		return nil, motion.ErrEmptyGrid
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

	for gi := 1; gi < len(grid); gi++ {
		x = r.Step(f, x, grid[gi-1], grid[gi]-grid[gi-1])

		if !x.IsValid() {
			return traj, motion.StepError{Step: gi, Time: grid[gi], Message: motion.ErrInvalidState.Error()}
		}

		traj.States = append(traj.States, x.Clone())
		traj.Times = append(traj.Times, grid[gi])
		if opts.Callback != nil && !opts.Callback(x.Clone(), grid[gi]) {
			return traj, nil
		}
	}

	return traj, nil
}
