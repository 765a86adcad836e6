package equilibrium

import (
	"math"
	"testing"

	"github.com/fusionsim/gcorbit/internal/geom"
)

func TestFluxMinimumAtAxis(t *testing.T) {
	m := NewCircular()
	ax := m.Axis()

	psiAxis := m.Flux(ax.R, ax.Z)
	if psiAxis != 0 {
		t.Errorf("axis flux = %e, want 0", psiAxis)
	}

	for _, dp := range []geom.Point{{R: 0.1, Z: 0}, {R: -0.1, Z: 0}, {R: 0, Z: 0.1}, {R: 0, Z: -0.1}} {
		if m.Flux(ax.R+dp.R, ax.Z+dp.Z) <= psiAxis {
			t.Errorf("flux at offset %+v not above axis value", dp)
		}
	}
}

func TestPoloidalFieldFromFlux(t *testing.T) {
	// B_R = (1/r) dpsi/dz and B_Z = -(1/r) dpsi/dr, checked against
	// central differences of Flux.
	m := NewSolovev()
	h := 1e-6

	for _, p := range []geom.Point{{R: 2.0, Z: 0.2}, {R: 1.5, Z: -0.4}, {R: 2.2, Z: 0.5}} {
		b := m.FieldVector(p.R, p.Z)

		dpsidz := (m.Flux(p.R, p.Z+h) - m.Flux(p.R, p.Z-h)) / (2 * h)
		dpsidr := (m.Flux(p.R+h, p.Z) - m.Flux(p.R-h, p.Z)) / (2 * h)

		if math.Abs(b.R-dpsidz/p.R) > 1e-6 {
			t.Errorf("B_R at %+v: got %e want %e", p, b.R, dpsidz/p.R)
		}
		if math.Abs(b.Z-(-dpsidr/p.R)) > 1e-6 {
			t.Errorf("B_Z at %+v: got %e want %e", p, b.Z, -dpsidr/p.R)
		}
	}
}

func TestToroidalFieldSign(t *testing.T) {
	m := NewCircular()
	b := m.FieldVector(m.R0, 0)
	if b.Phi <= 0 {
		t.Errorf("B_phi = %f, want positive for sigma=+1", b.Phi)
	}

	m.Sig = -1
	b = m.FieldVector(m.R0, 0)
	if b.Phi >= 0 {
		t.Errorf("B_phi = %f, want negative for sigma=-1", b.Phi)
	}
}

func TestFieldMagnitudeDecreasesOutboard(t *testing.T) {
	m := NewCircular()
	inboard := m.FieldMagnitude(m.R0-0.3, 0)
	outboard := m.FieldMagnitude(m.R0+0.3, 0)
	if outboard >= inboard {
		t.Errorf("|B| outboard (%f) should be below inboard (%f)", outboard, inboard)
	}
}

func TestFluxNormalization(t *testing.T) {
	m := NewCircular()
	want := m.Flux(m.R0+m.A, 0)
	if m.FluxNormalization() != want {
		t.Errorf("flux normalization = %e, want edge flux %e", m.FluxNormalization(), want)
	}
}

func TestBoundaryPolygonContainsAxis(t *testing.T) {
	m := NewSolovev()
	wall := m.Boundary(64)
	if !wall.Contains(m.Axis()) {
		t.Error("axis should be inside the boundary polygon")
	}
	if wall.Contains(geom.Point{R: m.R0 + 1.1*m.A, Z: 0}) {
		t.Error("point outside the last closed surface should be outside the polygon")
	}
}

func TestSetParam(t *testing.T) {
	m := NewSolovev()
	if err := m.SetParam("b0", 3.5); err != nil {
		t.Fatal(err)
	}
	if m.B0 != 3.5 {
		t.Errorf("b0 = %f after SetParam", m.B0)
	}
	if err := m.SetParam("bogus", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}
