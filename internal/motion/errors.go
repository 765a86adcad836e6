package motion

import "errors"

// Domain errors for orbit tracing.
var (
	// ErrOutOfBounds indicates a trace was started outside the equilibrium
	// domain or the first wall.
	ErrOutOfBounds = errors.New("motion: start point outside domain")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("motion: invalid state (NaN or Inf detected)")

	// ErrBracket indicates the scalar minimizer failed to converge inside
	// its bracket.
	ErrBracket = errors.New("motion: minimizer did not converge in bracket")

	// ErrStepTooSmall indicates the adaptive timestep collapsed below the
	// representable minimum.
	ErrStepTooSmall = errors.New("motion: adaptive timestep below minimum")

	// ErrEmptyGrid indicates an integration was requested over fewer than
	// two grid points.
	ErrEmptyGrid = errors.New("motion: time grid needs at least two points")
)
