// Package motion provides the core primitives for guiding-center orbit
// integration.
//
// The package defines the interfaces and types shared by the drift-field
// model and the integrators:
//
//   - [State]: phase-space vector [r, z, phi]
//   - [VectorField]: ODE right-hand side dX/dt = f(X, t)
//   - [GridIntegrator]: dense-output integrator with step callbacks
//   - [Trajectory]: sampled states in step order
//
// Step callbacks are the event mechanism used by the orbit tracer: a
// callback returning false halts the run after the current sample, which is
// how boundary hits and orbit closure terminate a trace early.
//
// # Thread Safety
//
// States and trajectories are plain values with no shared state; a vector
// field is safe for concurrent use when its underlying equilibrium is
// read-only, which every equilibrium in this module is.
package motion
