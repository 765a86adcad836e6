package orbit

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/coords"
)

// Orbit is the immutable result of a trace: the particle's canonical and
// reference-point coordinates, the sampled poloidal trajectory, and the
// termination verdict. All accessors copy; nothing observable about an
// Orbit changes after construction.
type Orbit struct {
	coord coords.HamiltonianCoordinate
	ref   coords.ReferenceCoordinate

	r   []float64
	z   []float64
	phi []float64
	dt  []float64

	complete     bool
	hitsBoundary bool
}

func newOrbit(hc coords.HamiltonianCoordinate, ref coords.ReferenceCoordinate,
	r, z, phi, dt []float64, complete, hitsBoundary bool) *Orbit {
	return &Orbit{
		coord:        hc,
		ref:          ref,
		r:            r,
		z:            z,
		phi:          phi,
		dt:           dt,
		complete:     complete,
		hitsBoundary: hitsBoundary,
	}
}

func (o *Orbit) Coordinate() coords.HamiltonianCoordinate { return o.coord }
func (o *Orbit) Reference() coords.ReferenceCoordinate    { return o.ref }

func (o *Orbit) Complete() bool     { return o.complete }
func (o *Orbit) HitsBoundary() bool { return o.hitsBoundary }

func (o *Orbit) Len() int { return len(o.r) }

func (o *Orbit) R() []float64         { return clone(o.r) }
func (o *Orbit) Z() []float64         { return clone(o.z) }
func (o *Orbit) Phi() []float64       { return clone(o.phi) }
func (o *Orbit) Intervals() []float64 { return clone(o.dt) }

// Times accumulates the per-step intervals into sample times starting at
// zero. Computed on demand from the stored intervals.
func (o *Orbit) Times() []float64 {
	ts := make([]float64, len(o.dt))
	acc := 0.0
	for i := range o.dt {
		ts[i] = acc
		acc += o.dt[i]
	}
	return ts
}

// Period is the total traced time, the orbital period for a complete orbit.
func (o *Orbit) Period() float64 {
	total := 0.0
	for _, d := range o.dt {
		total += d
	}
	return total
}

// Cartesian projects sample i to (x, y, z).
func (o *Orbit) Cartesian(i int) (x, y, z float64) {
	return o.r[i] * math.Cos(o.phi[i]), o.r[i] * math.Sin(o.phi[i]), o.z[i]
}

func clone(xs []float64) []float64 {
	c := make([]float64, len(xs))
	copy(c, xs)
	return c
}
