package equilibrium

import "github.com/fusionsim/gcorbit/internal/geom"

// Equilibrium is the axisymmetric field model consumed by the coordinate
// transforms and the tracers. Implementations must be safe for concurrent
// read access; nothing in this module writes to an equilibrium.
type Equilibrium interface {
	// Flux returns the poloidal flux psi at (r, z).
	Flux(r, z float64) float64

	// FieldMagnitude returns |B| at (r, z).
	FieldMagnitude(r, z float64) float64

	// FieldVector returns B at (r, z) in cylindrical components.
	FieldVector(r, z float64) geom.Vec3

	// ToroidalFunction returns g(psi) = R * B_phi on the flux surface psi.
	ToroidalFunction(psi float64) float64

	// Potential returns the electrostatic potential (V) on the flux
	// surface psi.
	Potential(psi float64) float64

	// Axis returns the magnetic axis position.
	Axis() geom.Point

	// Sigma is the field/current sign convention, +1 or -1.
	Sigma() float64

	// RadialDomain and VerticalDomain bound the valid (r, z) region.
	RadialDomain() (lo, hi float64)
	VerticalDomain() (lo, hi float64)

	// FluxNormalization is the flux scale used by normalized coordinates,
	// conventionally the flux at the last closed surface.
	FluxNormalization() float64
}

// InDomain reports whether (r, z) lies inside the equilibrium's box.
func InDomain(eq Equilibrium, r, z float64) bool {
	rlo, rhi := eq.RadialDomain()
	zlo, zhi := eq.VerticalDomain()
	return r >= rlo && r <= rhi && z >= zlo && z <= zhi
}
