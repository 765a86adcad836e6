package orbit

import (
	"fmt"
	"math"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/drift"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/logging"
	"github.com/fusionsim/gcorbit/internal/motion"
	"github.com/fusionsim/gcorbit/internal/numerics"
)

// ContourOptions configures the level-set tracer.
type ContourOptions struct {
	// EnergyTol is the relative tolerance for the pre-check between the
	// orbit-energy function at the start point and the coordinate's stored
	// energy. Default 1e-6.
	EnergyTol float64

	// StagTol bounds the standard deviation of R and Z below which the
	// traced path is a stagnation point. Default 0.01.
	StagTol float64

	// Follower controls for the level-curve extraction.
	Tol     float64
	StepMin float64
	StepMax float64
	MaxIter int

	// Boundary handling, mirroring TraceOptions.
	Wall *geom.Polygon
	MaxR float64
}

func DefaultContourOptions() ContourOptions {
	f := numerics.DefaultContourOptions()
	return ContourOptions{
		EnergyTol: 1e-6,
		StagTol:   0.01,
		Tol:       1e-12,
		StepMin:   f.StepMin,
		StepMax:   f.StepMax,
		MaxIter:   f.MaxIter,
	}
}

func (o ContourOptions) withDefaults() ContourOptions {
	d := DefaultContourOptions()
	if o.EnergyTol <= 0 {
		o.EnergyTol = d.EnergyTol
	}
	if o.StagTol <= 0 {
		o.StagTol = d.StagTol
	}
	if o.Tol <= 0 {
		o.Tol = d.Tol
	}
	if o.StepMin <= 0 {
		o.StepMin = d.StepMin
	}
	if o.StepMax <= 0 {
		o.StepMax = d.StepMax
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	return o
}

// ContourTracer follows the constant-energy level curve through the
// poloidal plane instead of integrating through time. For a conserved-
// energy guiding-center orbit the two are equivalent, but the level set is
// numerically steadier for closed orbits; timing is reconstructed
// afterwards from the drift speed along the path.
type ContourTracer struct {
	eq   equilibrium.Equilibrium
	opts ContourOptions
}

func NewContourTracer(eq equilibrium.Equilibrium, opts ContourOptions) *ContourTracer {
	return &ContourTracer{eq: eq, opts: opts.withDefaults()}
}

func (ct *ContourTracer) inBounds(r, z float64) bool {
	if ct.opts.Wall != nil {
		if ct.opts.MaxR > 0 && r > ct.opts.MaxR {
			return false
		}
		return ct.opts.Wall.Contains(geom.Point{R: r, Z: z})
	}
	return equilibrium.InDomain(ct.eq, r, z)
}

// Trace follows the orbit of a reference-point coordinate from its
// reference point. A nil orbit with nil error means the coordinate failed
// the energy consistency pre-check (an absent result, not a failure);
// starting outside the domain is a hard error.
func (ct *ContourTracer) Trace(rc coords.ReferenceCoordinate) (*Orbit, error) {
	if !ct.inBounds(rc.R, rc.Z) {
		return nil, fmt.Errorf("orbit: contour start (%g, %g): %w", rc.R, rc.Z, motion.ErrOutOfBounds)
	}

	hc := rc.Hamiltonian(ct.eq)
	field := drift.New(ct.eq, hc)

	// hc carries the flux the coordinate was built with; OrbitEnergy
	// re-evaluates the flux at the reference point. A coordinate whose
	// stored flux disagrees with Flux(R, Z) lands off its own level set.
	level := field.OrbitEnergy(rc.R, rc.Z)
	if math.Abs(level-hc.Energy) > ct.opts.EnergyTol*math.Abs(hc.Energy) {
		logging.WithComponent("orbit").WithFields(logging.Fields{
			"stored_energy": hc.Energy,
			"point_energy":  level,
		}).Warn("contour pre-check: energy mismatch at reference point")
		return nil, nil
	}

	path, closed := numerics.FollowLevel(field.OrbitEnergy, geom.Point{R: rc.R, Z: rc.Z}, hc.Energy,
		numerics.ContourOptions{
			Tol:     ct.opts.Tol,
			StepMin: ct.opts.StepMin,
			StepMax: ct.opts.StepMax,
			MaxIter: ct.opts.MaxIter,
			Bounds:  func(p geom.Point) bool { return ct.inBounds(p.R, p.Z) },
		})
	if len(path) == 0 {
		return nil, nil
	}

	orient(path, field)

	hitBoundary := false
	if last := path[len(path)-1]; !ct.inBounds(last.R, last.Z) {
		hitBoundary = true
	}

	return ct.assemble(field, rc, path, closed, hitBoundary), nil
}

// orient reverses the polyline in place when its first segment runs
// against the drift velocity at the first vertex.
func orient(path []geom.Point, field *drift.Field) {
	if len(path) < 2 {
		return
	}
	v := field.Velocity(path[0].R, path[0].Z)
	dr := path[1].R - path[0].R
	dz := path[1].Z - path[0].Z
	if dr*v.R+dz*v.Z < 0 {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}
}

// assemble reduces the polyline to an Orbit, reconstructing per-segment
// times from the poloidal drift speed and accumulating the toroidal angle.
func (ct *ContourTracer) assemble(field *drift.Field, rc coords.ReferenceCoordinate,
	path []geom.Point, closed, hitBoundary bool) *Orbit {

	rs := make([]float64, len(path))
	zs := make([]float64, len(path))
	for i, p := range path {
		rs[i] = p.R
		zs[i] = p.Z
	}

	// Only a closed, in-bounds path can collapse to a stagnation point; a
	// truncated path is short because the wall cut it, not because the
	// drift vanished.
	if closed && !hitBoundary &&
		numerics.StdDev(rs) < ct.opts.StagTol && numerics.StdDev(zs) < ct.opts.StagTol {
		return ct.stagnation(field, rc)
	}

	n := len(path)
	phis := make([]float64, n)
	dts := make([]float64, n)

	vpol := make([]float64, n)
	vtor := make([]float64, n)
	for i := range path {
		v := field.Velocity(rs[i], zs[i])
		vpol[i] = math.Hypot(v.R, v.Z)
		vtor[i] = v.Phi
	}

	for i := 1; i < n; i++ {
		seg := math.Hypot(rs[i]-rs[i-1], zs[i]-zs[i-1])
		dt := seg / (0.5 * (vpol[i-1] + vpol[i]))
		dts[i-1] = dt
		phis[i] = phis[i-1] + math.Atan2(dt*0.5*(vtor[i-1]+vtor[i]), rs[i-1])
	}

	complete := closed && !hitBoundary
	return newOrbit(field.Coordinate(), rc, rs, zs, phis, dts, complete, hitBoundary)
}

// stagnation represents a degenerate point orbit: two identical samples
// with the period of pure toroidal circulation.
func (ct *ContourTracer) stagnation(field *drift.Field, rc coords.ReferenceCoordinate) *Orbit {
	v := field.Velocity(rc.R, rc.Z)
	period := 2 * math.Pi * rc.R / math.Abs(v.Phi)

	rs := []float64{rc.R, rc.R}
	zs := []float64{rc.Z, rc.Z}
	phis := []float64{0, 2 * math.Pi * sign(v.Phi)}
	dts := []float64{period, 0}

	return newOrbit(field.Coordinate(), rc, rs, zs, phis, dts, true, false)
}
