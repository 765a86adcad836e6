package drift

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/motion"
	"github.com/fusionsim/gcorbit/internal/numerics"
)

// Field is the guiding-center drift velocity field of one particle,
// defined by its canonical coordinate and the equilibrium. It is stateless
// given (coordinate, position): every evaluation recomputes the local
// field quantities. The state layout is [r, z, phi].
type Field struct {
	eq equilibrium.Equilibrium
	c  coords.HamiltonianCoordinate
}

func New(eq equilibrium.Equilibrium, c coords.HamiltonianCoordinate) *Field {
	return &Field{eq: eq, c: c}
}

func (f *Field) Dim() int { return 3 }

func (f *Field) Coordinate() coords.HamiltonianCoordinate { return f.c }

// Velocity returns the guiding-center velocity at (r, z) in linear
// cylindrical components (m/s).
func (f *Field) Velocity(r, z float64) geom.Vec3 {
	psi := f.eq.Flux(r, z)
	g := f.eq.ToroidalFunction(psi)
	b := f.eq.FieldVector(r, z)
	bmag := b.Norm()

	qe := float64(f.c.Charge) * coords.ElementaryCharge

	wPerp := f.c.Mu * bmag
	wPara := 1000*coords.ElementaryCharge*f.c.Energy - wPerp

	vPara := -bmag * (f.c.PPhi - qe*psi) / (f.c.Amu * coords.MassU * g)

	dbdr, dbdz := numerics.Gradient2(f.eq.FieldMagnitude, r, z)
	gradB := geom.Vec3{R: dbdr, Z: dbdz}

	vDrift := b.Cross(gradB).Scale((wPerp + 2*wPara) / (qe * bmag * bmag * bmag))

	return b.Scale(vPara / bmag).Add(vDrift)
}

// Derive feeds the radial and vertical velocity components to the position
// derivatives directly; the toroidal component becomes an angular velocity.
func (f *Field) Derive(x motion.State, t float64) motion.State {
	v := f.Velocity(x[0], x[1])
	return motion.State{v.R, v.Z, v.Phi / x[0]}
}

// Speed is the guiding-center speed |v_gc| at (r, z).
func (f *Field) Speed(r, z float64) float64 {
	return f.Velocity(r, z).Norm()
}

// PoloidalSpeed is the in-plane speed, the quantity that converts contour
// arc length into time.
func (f *Field) PoloidalSpeed(r, z float64) float64 {
	v := f.Velocity(r, z)
	return math.Hypot(v.R, v.Z)
}

// OrbitEnergy evaluates the total orbit energy (keV) implied by the
// coordinate's invariants at (r, z). Along an exact orbit this is constant
// and equal to the coordinate's energy; its level curve through the
// starting point is the orbit traced by the contour strategy.
func (f *Field) OrbitEnergy(r, z float64) float64 {
	psi := f.eq.Flux(r, z)
	g := f.eq.ToroidalFunction(psi)
	bmag := f.eq.FieldMagnitude(r, z)

	qe := float64(f.c.Charge) * coords.ElementaryCharge
	vPara := -bmag * (f.c.PPhi - qe*psi) / (f.c.Amu * coords.MassU * g)

	kinetic := (f.c.Mu*bmag + 0.5*f.c.Amu*coords.MassU*vPara*vPara) /
		(1000 * coords.ElementaryCharge)

	return kinetic + f.eq.Potential(psi)/1000
}
