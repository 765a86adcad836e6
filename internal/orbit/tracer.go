package orbit

import (
	"fmt"
	"math"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/drift"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/integrators"
	"github.com/fusionsim/gcorbit/internal/motion"
)

// TraceOptions configures the time-integration tracer.
type TraceOptions struct {
	Steps  int     // time grid steps, default 3000
	TMax   float64 // grid span in seconds, default 500e-6
	RelTol float64 // integrator relative tolerance, default 1e-8
	AbsTol float64 // integrator absolute tolerance, default 1e-12
	RTol   float64 // closure tolerance on radius (m), default 0.01

	// Wall switches boundary checking from the equilibrium's domain box to
	// wall-constrained mode: inside the polygon and, when MaxR is set,
	// radius not exceeding MaxR (the reference point's radius).
	Wall *geom.Polygon
	MaxR float64

	// Integrator defaults to RK45.
	Integrator motion.GridIntegrator
}

func DefaultTraceOptions() TraceOptions {
	return TraceOptions{
		Steps:  3000,
		TMax:   500e-6,
		RelTol: 1e-8,
		AbsTol: 1e-12,
		RTol:   0.01,
	}
}

func (o TraceOptions) withDefaults() TraceOptions {
	d := DefaultTraceOptions()
	if o.Steps <= 0 {
		o.Steps = d.Steps
	}
	if o.TMax <= 0 {
		o.TMax = d.TMax
	}
	if o.RelTol <= 0 {
		o.RelTol = d.RelTol
	}
	if o.AbsTol <= 0 {
		o.AbsTol = d.AbsTol
	}
	if o.RTol <= 0 {
		o.RTol = d.RTol
	}
	if o.Integrator == nil {
		o.Integrator = integrators.NewRK45()
	}
	return o
}

// Tracer integrates the guiding-center drift field through time, watching
// each accepted step for boundary exit or orbit closure. A Tracer is
// stateless across calls; every Trace owns a fresh tracking context, so
// concurrent traces against the same equilibrium are safe.
type Tracer struct {
	eq   equilibrium.Equilibrium
	opts TraceOptions
}

func NewTracer(eq equilibrium.Equilibrium, opts TraceOptions) *Tracer {
	return &Tracer{eq: eq, opts: opts.withDefaults()}
}

func (tr *Tracer) inBounds(r, z float64) bool {
	if tr.opts.Wall != nil {
		if tr.opts.MaxR > 0 && r > tr.opts.MaxR {
			return false
		}
		return tr.opts.Wall.Contains(geom.Point{R: r, Z: z})
	}
	return equilibrium.InDomain(tr.eq, r, z)
}

// traceContext is the per-call mutable tracking state threaded through the
// integrator callback. It is owned by a single Trace call and never shared.
type traceContext struct {
	r0, z0  float64
	rTol    float64
	nseen   int
	initDir float64
	prevZ   float64
	prevDz  float64
	npol    int

	complete   bool
	terminated bool
	hitWall    bool
}

// observe classifies one accepted sample. It returns true when the trace
// should halt at this sample.
func (tc *traceContext) observe(inBounds bool, r, z float64) bool {
	if !inBounds {
		tc.hitWall = true
		return true
	}

	dz := z - tc.z0
	switch tc.nseen {
	case 0:
		// The launch sample itself.
		tc.nseen++
		return false
	case 1:
		if dz == 0 {
			// Vertical motion has not begun; keep waiting.
			return false
		}
		tc.initDir = sign(dz)
		tc.prevZ = z
		tc.prevDz = dz
		tc.nseen++
		return false
	}

	if dz != 0 && sign(dz) != sign(tc.prevDz) {
		// Poloidal crossing of the launch plane.
		tc.npol++
		dir := sign(z - tc.prevZ)
		if math.Abs(r-tc.r0) <= tc.rTol && dir == tc.initDir {
			// Returned to the starting radius moving the same way: the
			// orbit has closed. Crossing counts of 2 and 4 are the two
			// closed topologies this axisymmetric crossing scheme can
			// produce; anything else closed on the wrong pass.
			tc.complete = tc.npol == 2 || tc.npol == 4
			tc.terminated = true
			return true
		}
	}

	tc.prevZ = z
	tc.prevDz = dz
	return false
}

// Trace integrates the orbit of an energy-pitch-position coordinate from
// its own (r, z).
func (tr *Tracer) Trace(c coords.EPRCoordinate) (*Orbit, error) {
	return tr.TraceFrom(c.Hamiltonian(tr.eq), c.R, c.Z)
}

// TraceFrom integrates a canonical coordinate launched at (r, z). Starting
// outside the domain (or wall) is a hard precondition failure; no
// integration step is taken.
func (tr *Tracer) TraceFrom(hc coords.HamiltonianCoordinate, r, z float64) (*Orbit, error) {
	if !tr.inBounds(r, z) {
		return nil, fmt.Errorf("orbit: trace start (%g, %g): %w", r, z, motion.ErrOutOfBounds)
	}

	field := drift.New(tr.eq, hc)
	grid := motion.TimeGrid(tr.opts.TMax, tr.opts.Steps)

	tc := &traceContext{r0: r, z0: z, rTol: tr.opts.RTol}

	traj, err := tr.opts.Integrator.Integrate(field, motion.State{r, z, 0}, grid, motion.Options{
		RelTol: tr.opts.RelTol,
		AbsTol: tr.opts.AbsTol,
		Callback: func(x motion.State, t float64) bool {
			return !tc.observe(tr.inBounds(x[0], x[1]), x[0], x[1])
		},
	})
	if err != nil {
		return nil, err
	}

	return tr.assemble(field, traj, tc), nil
}

// assemble converts a trajectory and its tracking context into an Orbit.
func (tr *Tracer) assemble(field *drift.Field, traj *motion.Trajectory, tc *traceContext) *Orbit {
	n := traj.Len()
	rs := make([]float64, n)
	zs := make([]float64, n)
	phis := make([]float64, n)
	dts := make([]float64, n)

	for i, x := range traj.States {
		rs[i] = x[0]
		zs[i] = x[1]
		phis[i] = x[2]
		if i > 0 {
			dts[i-1] = traj.Times[i] - traj.Times[i-1]
		}
	}

	// Early termination truncates the nominal grid, so the final interval
	// is recovered from the gap between the endpoints and the analytic
	// guiding-center speed at the launch point.
	if n > 1 {
		gap := math.Hypot(rs[n-1]-rs[0], zs[n-1]-zs[0])
		dts[n-1] = gap / field.Speed(rs[0], zs[0])
	}

	return newOrbit(field.Coordinate(), tr.reference(field, rs, zs),
		rs, zs, phis, dts, tc.complete, tc.hitWall)
}

// reference anchors the orbit at its maximum-radius sample.
func (tr *Tracer) reference(field *drift.Field, rs, zs []float64) coords.ReferenceCoordinate {
	imax := 0
	for i, r := range rs {
		if r > rs[imax] {
			imax = i
		}
	}
	hc := field.Coordinate()
	rm, zm := rs[imax], zs[imax]
	psi := tr.eq.Flux(rm, zm)
	return coords.ReferenceCoordinate{
		Energy: hc.Energy - tr.eq.Potential(psi)/1000,
		Pitch:  coords.GetPitch(tr.eq, hc, rm, zm),
		Psi:    psi,
		R:      rm,
		Z:      zm,
		Amu:    hc.Amu,
		Charge: hc.Charge,
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
