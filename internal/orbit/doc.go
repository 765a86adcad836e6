// Package orbit traces and classifies guiding-center drift orbits in the
// poloidal plane.
//
// Two strategies produce the same [Orbit] result type:
//
//   - [Tracer] integrates the drift equations over a fixed time grid,
//     watching each accepted step for boundary exit or orbit closure.
//   - [ContourTracer] follows the constant-energy level curve and
//     reconstructs timing from the drift speed afterwards.
//
// Closure classification counts crossings of the launch plane: a return to
// the starting radius with matching vertical direction on crossing 2 or 4
// is a complete orbit; leaving the domain or wall is a boundary hit; a
// trace that does neither within its grid is ambiguous and stays
// unclassified.
//
// Hard errors are reserved for precondition violations (launching from
// outside the domain). Physics outcomes that simply have no answer, such
// as the ambiguous reduction in [ReferenceFrom] or a failed energy
// pre-check in the contour tracer, are nil results with nil error.
package orbit
