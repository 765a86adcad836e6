package geom

import (
	"math"
	"testing"
)

func TestCrossRightHanded(t *testing.T) {
	eR := Vec3{R: 1}
	ePhi := Vec3{Phi: 1}
	eZ := Vec3{Z: 1}

	c := eR.Cross(ePhi)
	if math.Abs(c.Z-1) > 1e-15 || math.Abs(c.R) > 1e-15 || math.Abs(c.Phi) > 1e-15 {
		t.Errorf("e_R x e_Phi = %+v, want e_Z", c)
	}

	c = ePhi.Cross(eZ)
	if math.Abs(c.R-1) > 1e-15 {
		t.Errorf("e_Phi x e_Z = %+v, want e_R", c)
	}
}

func TestCrossAntiCommutes(t *testing.T) {
	a := Vec3{R: 0.3, Phi: -1.2, Z: 2.5}
	b := Vec3{R: -0.7, Phi: 0.4, Z: 1.1}

	ab := a.Cross(b)
	ba := b.Cross(a)

	if math.Abs(ab.R+ba.R) > 1e-15 || math.Abs(ab.Phi+ba.Phi) > 1e-15 || math.Abs(ab.Z+ba.Z) > 1e-15 {
		t.Errorf("a x b != -(b x a): %+v vs %+v", ab, ba)
	}

	if math.Abs(a.Dot(ab)) > 1e-14 {
		t.Errorf("a . (a x b) = %e, want 0", a.Dot(ab))
	}
}

func TestPolygonContains(t *testing.T) {
	// Unit square centered on (2, 0).
	pg := NewPolygon(
		[]float64{1.5, 2.5, 2.5, 1.5},
		[]float64{-0.5, -0.5, 0.5, 0.5},
	)

	if !pg.Contains(Point{R: 2.0, Z: 0.0}) {
		t.Error("center should be inside")
	}
	if pg.Contains(Point{R: 3.0, Z: 0.0}) {
		t.Error("point right of square should be outside")
	}
	if pg.Contains(Point{R: 2.0, Z: 1.0}) {
		t.Error("point above square should be outside")
	}
}

func TestPolygonConcave(t *testing.T) {
	// L-shape: notch cut from the upper right.
	pg := NewPolygon(
		[]float64{0, 2, 2, 1, 1, 0},
		[]float64{0, 0, 1, 1, 2, 2},
	)

	if !pg.Contains(Point{R: 0.5, Z: 1.5}) {
		t.Error("upper-left arm should be inside")
	}
	if pg.Contains(Point{R: 1.5, Z: 1.5}) {
		t.Error("notch should be outside")
	}
}

func TestPolygonDegenerate(t *testing.T) {
	pg := NewPolygon([]float64{1, 2}, []float64{0, 0})
	if pg.Contains(Point{R: 1.5, Z: 0}) {
		t.Error("two-vertex polygon contains nothing")
	}
}
