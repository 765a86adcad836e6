package coords

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/logging"
)

// PitchTol is the absolute tolerance for the mu/p_phi pitch cross-check.
const PitchTol = 1.5e-2

// GetPitch recovers the pitch consistent with a canonical coordinate at an
// arbitrary (r, z), by inverting the p_phi transform. The magnitude implied
// independently by mu is cross-checked against the algebraic estimate; a
// mismatch beyond PitchTol is logged as a diagnostic but does not change
// the result. The algebraic estimate, clamped to [-1, 1], is returned
// regardless.
func GetPitch(eq equilibrium.Equilibrium, c HamiltonianCoordinate, r, z float64) float64 {
	psi := eq.Flux(r, z)
	g := eq.ToroidalFunction(psi)
	b := eq.FieldMagnitude(r, z)

	ke := c.Energy - eq.Potential(psi)/1000

	pitch := -eq.Sigma() * b * (c.PPhi - float64(c.Charge)*ElementaryCharge*psi) /
		(g * math.Sqrt(2000*ElementaryCharge*ke*MassU*c.Amu))

	fromMu := math.Sqrt(math.Max(0, 1-c.Mu*b/(1000*ElementaryCharge*ke)))

	if math.Abs(math.Abs(pitch)-fromMu) > PitchTol {
		logging.WithComponent("coords").WithFields(logging.Fields{
			"r": r, "z": z,
			"pitch_pphi": pitch,
			"pitch_mu":   fromMu,
		}).Warn("pitch cross-check mismatch")
	}

	return clamp(pitch, -1, 1)
}
