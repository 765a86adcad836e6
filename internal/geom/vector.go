package geom

import "math"

// Vec3 is a vector in cylindrical components (R, Phi, Z) at a fixed point.
type Vec3 struct {
	R   float64
	Phi float64
	Z   float64
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.R*v.R + v.Phi*v.Phi + v.Z*v.Z)
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{R: v.R * s, Phi: v.Phi * s, Z: v.Z * s}
}

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{R: v.R + w.R, Phi: v.Phi + w.Phi, Z: v.Z + w.Z}
}

// Cross returns v x w. Cylindrical components at a common point form a
// right-handed orthonormal triad (e_R, e_Phi, e_Z), so the usual Cartesian
// cross-product formula applies component-wise.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		R:   v.Phi*w.Z - v.Z*w.Phi,
		Phi: v.Z*w.R - v.R*w.Z,
		Z:   v.R*w.Phi - v.Phi*w.R,
	}
}

func (v Vec3) Dot(w Vec3) float64 {
	return v.R*w.R + v.Phi*w.Phi + v.Z*w.Z
}
