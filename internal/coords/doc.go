// Package coords defines the interchangeable particle-coordinate
// representations of a guiding-center orbit and their transform laws.
//
// Three variants exist, all convertible to the canonical form:
//
//   - [EPRCoordinate]: kinetic energy, pitch, and poloidal position
//   - [HamiltonianCoordinate]: the canonical (E, mu, p_phi) invariants
//   - [ReferenceCoordinate]: values anchored at the orbit's
//     maximum-radius point, for interchange with transport codes
//
// Energies are in keV throughout; mu and p_phi are SI. Coordinates are
// plain immutable values, freely copied; the equilibrium passed to a
// transform is read-only and never retained.
package coords
