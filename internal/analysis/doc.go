// Package analysis provides the front-end analyses over a translation
// unit, starting with clause normalisation: the canonical,
// variable-renaming-invariant flat form that equivalence and minimisation
// passes compare.
//
// Analyses are named, idempotent per translation unit, and cache immutable
// results keyed by the identity of the input clause. Running the same
// analysis twice over one unit is a programming error.
package analysis
