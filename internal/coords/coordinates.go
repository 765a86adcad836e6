package coords

import (
	"fmt"
	"math"

	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/motion"
	"github.com/fusionsim/gcorbit/internal/numerics"
)

// Physical constants (SI).
const (
	ElementaryCharge = 1.60217733e-19 // C
	MassU            = 1.6605402e-27  // kg, atomic mass unit
)

// Coordinate is the capability shared by all orbit-coordinate variants:
// conversion to the canonical (Hamiltonian) form against an equilibrium.
type Coordinate interface {
	Hamiltonian(eq equilibrium.Equilibrium) HamiltonianCoordinate
}

// EPRCoordinate labels a particle by kinetic energy (keV), pitch
// (cosine of the velocity angle to B), and poloidal position (m).
type EPRCoordinate struct {
	Energy float64
	Pitch  float64
	R      float64
	Z      float64
	Amu    float64
	Charge int
}

// NewEPR builds an energy-pitch-position coordinate with an explicit
// species. Pitch is clamped to [-1, 1].
func NewEPR(energy, pitch, r, z, amu float64, charge int) EPRCoordinate {
	return EPRCoordinate{
		Energy: energy,
		Pitch:  clamp(pitch, -1, 1),
		R:      r,
		Z:      z,
		Amu:    amu,
		Charge: charge,
	}
}

// NewEPRD is the historical deuterium shorthand (amu 2, charge 1).
func NewEPRD(energy, pitch, r, z float64) EPRCoordinate {
	return NewEPR(energy, pitch, r, z, 2.0, 1)
}

// NewEPRAt builds an EPR coordinate from a bare (energy, pitch, radius)
// triple by locating the vertical position of minimum flux at that radius.
// A minimizer that fails to converge inside the vertical domain is a hard
// error: it indicates a misconfigured equilibrium, not a physics outcome.
func NewEPRAt(eq equilibrium.Equilibrium, energy, pitch, r, amu float64, charge int) (EPRCoordinate, error) {
	rlo, rhi := eq.RadialDomain()
	if r < rlo || r > rhi {
		return EPRCoordinate{}, fmt.Errorf("coords: radius %g outside domain [%g, %g]: %w",
			r, rlo, rhi, motion.ErrOutOfBounds)
	}

	zlo, zhi := eq.VerticalDomain()
	z, err := numerics.Minimize(func(z float64) float64 {
		return eq.Flux(r, z)
	}, zlo, zhi, 1e-10)
	if err != nil {
		return EPRCoordinate{}, fmt.Errorf("coords: flux minimum at r=%g: %w", r, err)
	}

	return NewEPR(energy, pitch, r, z, amu, charge), nil
}

// HamiltonianCoordinate is the canonical form consumed by the drift field:
// total energy (keV), magnetic moment (J/T), and canonical toroidal
// momentum (kg m^2/s). All three are constants of the motion.
type HamiltonianCoordinate struct {
	Energy float64
	Mu     float64
	PPhi   float64
	Amu    float64
	Charge int
}

// ReferenceCoordinate anchors an orbit at its maximum-radius point, the
// compact form exchanged with transport codes. Energy is kinetic (keV);
// Pitch and Psi are evaluated at (R, Z).
type ReferenceCoordinate struct {
	Energy float64
	Pitch  float64
	Psi    float64
	R      float64
	Z      float64
	Amu    float64
	Charge int
}

// hamiltonianAt applies the canonical transform law at a point where the
// flux is already known.
func hamiltonianAt(eq equilibrium.Equilibrium, energy, pitch, psi, r, z, amu float64, charge int) HamiltonianCoordinate {
	g := eq.ToroidalFunction(psi)
	b := eq.FieldMagnitude(r, z)

	mu := ElementaryCharge * 1000 * energy * (1 - pitch*pitch) / b
	pphi := -eq.Sigma()*math.Sqrt(2000*ElementaryCharge*energy*MassU*amu)*g*pitch/b +
		float64(charge)*ElementaryCharge*psi

	return HamiltonianCoordinate{
		Energy: energy + eq.Potential(psi)/1000,
		Mu:     mu,
		PPhi:   pphi,
		Amu:    amu,
		Charge: charge,
	}
}

func (c EPRCoordinate) Hamiltonian(eq equilibrium.Equilibrium) HamiltonianCoordinate {
	psi := eq.Flux(c.R, c.Z)
	return hamiltonianAt(eq, c.Energy, c.Pitch, psi, c.R, c.Z, c.Amu, c.Charge)
}

// Hamiltonian on the canonical form is the identity; it must never
// recompute the invariants.
func (c HamiltonianCoordinate) Hamiltonian(eq equilibrium.Equilibrium) HamiltonianCoordinate {
	return c
}

func (c ReferenceCoordinate) Hamiltonian(eq equilibrium.Equilibrium) HamiltonianCoordinate {
	return hamiltonianAt(eq, c.Energy, c.Pitch, c.Psi, c.R, c.Z, c.Amu, c.Charge)
}

// NormalizedCoordinate is the canonical form rescaled for cross-regime
// comparison: Mu by the on-axis field, PPhi by the flux normalization.
// The rescaling is exactly invertible.
type NormalizedCoordinate struct {
	Energy float64
	Mu     float64
	PPhi   float64
	Amu    float64
	Charge int
}

func Normalize(c HamiltonianCoordinate, eq equilibrium.Equilibrium) NormalizedCoordinate {
	ax := eq.Axis()
	b0 := eq.FieldMagnitude(ax.R, ax.Z)
	return NormalizedCoordinate{
		Energy: c.Energy,
		Mu:     c.Mu / b0,
		PPhi:   c.PPhi / eq.FluxNormalization(),
		Amu:    c.Amu,
		Charge: c.Charge,
	}
}

func (n NormalizedCoordinate) Denormalize(eq equilibrium.Equilibrium) HamiltonianCoordinate {
	ax := eq.Axis()
	b0 := eq.FieldMagnitude(ax.R, ax.Z)
	return HamiltonianCoordinate{
		Energy: n.Energy,
		Mu:     n.Mu * b0,
		PPhi:   n.PPhi * eq.FluxNormalization(),
		Amu:    n.Amu,
		Charge: n.Charge,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
