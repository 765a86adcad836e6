package equilibrium

import (
	"fmt"
	"math"

	"github.com/fusionsim/gcorbit/internal/geom"
)

// Solovev is an analytic axisymmetric equilibrium with elliptical flux
// surfaces:
//
//	psi(r,z) = psi0 * ((r-R0)^2/a^2 + z^2/(kappa*a)^2)
//
// where psi0 = B0*a^2/(2*Q0*R0). The poloidal field follows from
// B_R = -(1/r) dpsi/dz, B_Z = (1/r) dpsi/dr, and the toroidal field is
// sigma*B0*R0/r. Kappa = 1 gives circular surfaces; the axis sits at
// (R0, 0) with psi = 0 and vacuum toroidal function g = B0*R0.
type Solovev struct {
	R0    float64 // major radius of the axis (m)
	B0    float64 // toroidal field at the axis (T)
	A     float64 // minor radius of the last closed surface (m)
	Kappa float64 // elongation
	Q0    float64 // safety-factor scale
	Phi0  float64 // on-axis electrostatic potential (V)
	Sig   float64 // sign convention, +1 or -1
}

func NewSolovev() *Solovev {
	return &Solovev{
		R0:    1.7,
		B0:    2.0,
		A:     0.6,
		Kappa: 1.4,
		Q0:    2.0,
		Sig:   1.0,
	}
}

// NewCircular is the Kappa = 1 special case used throughout the tests.
func NewCircular() *Solovev {
	m := NewSolovev()
	m.Kappa = 1.0
	return m
}

func (m *Solovev) psi0() float64 {
	return m.B0 * m.A * m.A / (2 * m.Q0 * m.R0)
}

func (m *Solovev) Flux(r, z float64) float64 {
	dr := r - m.R0
	ka := m.Kappa * m.A
	return m.psi0() * (dr*dr/(m.A*m.A) + z*z/(ka*ka))
}

func (m *Solovev) FieldVector(r, z float64) geom.Vec3 {
	p0 := m.psi0()
	ka := m.Kappa * m.A
	// B = grad(phi) x grad(psi) + g grad(phi), so the poloidal components
	// are B_R = (dpsi/dz)/r and B_Z = -(dpsi/dr)/r.
	return geom.Vec3{
		R:   2 * p0 * z / (ka * ka * r),
		Phi: m.Sig * m.B0 * m.R0 / r,
		Z:   -2 * p0 * (r - m.R0) / (m.A * m.A * r),
	}
}

func (m *Solovev) FieldMagnitude(r, z float64) float64 {
	return m.FieldVector(r, z).Norm()
}

func (m *Solovev) ToroidalFunction(psi float64) float64 {
	return m.B0 * m.R0
}

func (m *Solovev) Potential(psi float64) float64 {
	if m.Phi0 == 0 {
		return 0
	}
	return m.Phi0 * (1 - psi/m.FluxNormalization())
}

func (m *Solovev) Axis() geom.Point { return geom.Point{R: m.R0, Z: 0} }

func (m *Solovev) Sigma() float64 { return m.Sig }

func (m *Solovev) RadialDomain() (float64, float64) {
	return m.R0 - 1.2*m.A, m.R0 + 1.2*m.A
}

func (m *Solovev) VerticalDomain() (float64, float64) {
	w := 1.2 * m.Kappa * m.A
	return -w, w
}

func (m *Solovev) FluxNormalization() float64 {
	return m.Flux(m.R0+m.A, 0)
}

// Boundary samples the last closed flux surface as a wall polygon.
func (m *Solovev) Boundary(n int) *geom.Polygon {
	r := make([]float64, n)
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		th := 2 * math.Pi * float64(i) / float64(n)
		r[i] = m.R0 + m.A*math.Cos(th)
		z[i] = m.Kappa * m.A * math.Sin(th)
	}
	return geom.NewPolygon(r, z)
}

func (m *Solovev) GetParams() map[string]float64 {
	return map[string]float64{
		"r0":    m.R0,
		"b0":    m.B0,
		"a":     m.A,
		"kappa": m.Kappa,
		"q0":    m.Q0,
		"phi0":  m.Phi0,
		"sigma": m.Sig,
	}
}

func (m *Solovev) SetParam(name string, value float64) error {
	switch name {
	case "r0":
		m.R0 = value
	case "b0":
		m.B0 = value
	case "a":
		m.A = value
	case "kappa":
		m.Kappa = value
	case "q0":
		m.Q0 = value
	case "phi0":
		m.Phi0 = value
	case "sigma":
		m.Sig = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
