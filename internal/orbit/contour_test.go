package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/drift"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/motion"
)

// referenceFor reduces a launch coordinate through the time tracer so the
// contour tests start from a physically consistent reference point.
func referenceFor(t *testing.T, eq equilibrium.Equilibrium, c coords.EPRCoordinate) coords.ReferenceCoordinate {
	t.Helper()
	ref, err := ReferenceFrom(eq, c, DefaultTraceOptions())
	if err != nil {
		t.Fatal(err)
	}
	if ref == nil {
		t.Fatal("trace did not classify; cannot build a reference point")
	}
	return *ref
}

func TestContourTracesClosedOrbit(t *testing.T) {
	eq := equilibrium.NewCircular()
	rc := referenceFor(t, eq, coords.NewEPRD(80, 1.0, eq.R0, 0))

	ct := NewContourTracer(eq, DefaultContourOptions())
	o, err := ct.Trace(rc)
	if err != nil {
		t.Fatal(err)
	}
	if o == nil {
		t.Fatal("consistent reference coordinate must trace")
	}

	if !o.Complete() {
		t.Error("closed level curve should classify complete")
	}
	if o.HitsBoundary() {
		t.Error("orbit should stay inside the domain")
	}

	// Every vertex sits on the energy level set.
	hc := o.Coordinate()
	field := drift.New(eq, hc)
	rs, zs := o.R(), o.Z()
	for i := range rs {
		e := field.OrbitEnergy(rs[i], zs[i])
		if math.Abs(e-hc.Energy)/hc.Energy > 1e-9 {
			t.Fatalf("vertex %d off the level set: %.12f vs %.12f", i, e, hc.Energy)
		}
	}

	// Timing is strictly positive along the path.
	dts := o.Intervals()
	for i := 0; i < len(dts)-1; i++ {
		if dts[i] <= 0 {
			t.Fatalf("segment %d has nonpositive interval %e", i, dts[i])
		}
	}
}

func TestContourDirectionMatchesDrift(t *testing.T) {
	eq := equilibrium.NewCircular()
	rc := referenceFor(t, eq, coords.NewEPRD(80, 1.0, eq.R0, 0))

	ct := NewContourTracer(eq, DefaultContourOptions())
	o, err := ct.Trace(rc)
	if err != nil || o == nil {
		t.Fatal(err)
	}

	rs, zs := o.R(), o.Z()
	field := drift.New(eq, o.Coordinate())
	v := field.Velocity(rs[0], zs[0])
	if (rs[1]-rs[0])*v.R+(zs[1]-zs[0])*v.Z < 0 {
		t.Error("path runs against the drift velocity at its first vertex")
	}
}

func TestContourEnergyPreCheck(t *testing.T) {
	eq := equilibrium.NewCircular()
	rc := referenceFor(t, eq, coords.NewEPRD(80, 1.0, eq.R0, 0))

	// A stale stored flux puts the reference point off its own level set;
	// the pre-check must decline to trace. (Scaling the energy alone
	// rescales every derived invariant with it and stays self-consistent,
	// so the flux is the one stored quantity the point can contradict.)
	rc.Psi *= 1.05

	ct := NewContourTracer(eq, DefaultContourOptions())
	o, err := ct.Trace(rc)
	if err != nil {
		t.Fatal(err)
	}
	if o != nil {
		t.Error("energy mismatch must yield an absent orbit, not a trace")
	}
}

func TestContourStartOutsideDomain(t *testing.T) {
	eq := equilibrium.NewCircular()
	_, rhi := eq.RadialDomain()

	rc := coords.ReferenceCoordinate{Energy: 80, Pitch: 0.5, R: rhi + 0.1, Z: 0, Amu: 2, Charge: 1}
	ct := NewContourTracer(eq, DefaultContourOptions())

	_, err := ct.Trace(rc)
	if !errors.Is(err, motion.ErrOutOfBounds) {
		t.Fatalf("want ErrOutOfBounds, got %v", err)
	}
}

func TestStagnationReduction(t *testing.T) {
	eq := equilibrium.NewCircular()
	rc := coords.ReferenceCoordinate{
		Energy: 80, Pitch: 1.0,
		Psi: eq.Flux(2.0, 0),
		R:   2.0, Z: 0,
		Amu: 2, Charge: 1,
	}
	hc := rc.Hamiltonian(eq)
	field := drift.New(eq, hc)

	ct := NewContourTracer(eq, DefaultContourOptions())

	// A path whose spread is below the stagnation threshold collapses to a
	// point orbit.
	path := make([]geom.Point, 40)
	for i := range path {
		path[i] = geom.Point{R: 2.0 + 1e-5*float64(i%3), Z: 1e-5 * float64(i%2)}
	}

	o := ct.assemble(field, rc, path, true, false)

	if o.Len() != 2 {
		t.Fatalf("stagnation orbit has %d samples, want 2", o.Len())
	}
	rs, zs := o.R(), o.Z()
	if rs[0] != rs[1] || zs[0] != zs[1] {
		t.Error("stagnation samples must be identical")
	}
	if rs[0] != rc.R || zs[0] != rc.Z {
		t.Error("stagnation point must be the reference point")
	}

	v := field.Velocity(rc.R, rc.Z)
	want := 2 * math.Pi * rc.R / math.Abs(v.Phi)
	if math.Abs(o.Intervals()[0]-want) > want*1e-12 {
		t.Errorf("stagnation period %e, want %e", o.Intervals()[0], want)
	}
	if !o.Complete() || o.HitsBoundary() {
		t.Error("stagnation orbit is complete and bounded")
	}
}

func TestTruncatedPathIsNotStagnation(t *testing.T) {
	// A path cut short by the wall can have a spread below the stagnation
	// threshold; it must still assemble as a lost orbit, not collapse to a
	// point.
	eq := equilibrium.NewCircular()
	rc := coords.ReferenceCoordinate{
		Energy: 80, Pitch: 1.0,
		Psi: eq.Flux(2.0, 0),
		R:   2.0, Z: 0,
		Amu: 2, Charge: 1,
	}
	hc := rc.Hamiltonian(eq)
	field := drift.New(eq, hc)

	ct := NewContourTracer(eq, DefaultContourOptions())

	path := make([]geom.Point, 40)
	for i := range path {
		path[i] = geom.Point{R: 2.0 + 1e-5*float64(i%3), Z: 1e-5 * float64(i%2)}
	}

	o := ct.assemble(field, rc, path, false, true)

	if o.Len() != len(path) {
		t.Fatalf("truncated orbit has %d samples, want %d", o.Len(), len(path))
	}
	if !o.HitsBoundary() {
		t.Error("truncated orbit must keep its boundary verdict")
	}
	if o.Complete() {
		t.Error("a truncated orbit is not complete")
	}
}

func TestContourBoundaryTermination(t *testing.T) {
	// A wall much smaller than the orbit cuts the level curve short and
	// the trace must report a boundary hit.
	eq := equilibrium.NewCircular()
	rc := referenceFor(t, eq, coords.NewEPRD(80, -1.0, eq.R0, 0))

	opts := DefaultContourOptions()
	opts.Wall = geom.NewPolygon(
		[]float64{rc.R - 0.02, rc.R + 0.02, rc.R + 0.02, rc.R - 0.02},
		[]float64{rc.Z - 0.02, rc.Z - 0.02, rc.Z + 0.02, rc.Z + 0.02},
	)

	ct := NewContourTracer(eq, opts)
	o, err := ct.Trace(rc)
	if err != nil {
		t.Fatal(err)
	}
	if o == nil {
		t.Fatal("expected a truncated orbit, not an absent result")
	}
	if !o.HitsBoundary() {
		t.Error("truncated level curve must report the boundary")
	}
	if o.Complete() {
		t.Error("a truncated orbit is not complete")
	}
}
