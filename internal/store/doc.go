// Package store persists clause signatures in SQLite so equivalent
// clauses can be found across translation units and across runs. One row
// per (unit, clause); lookups go by signature.
package store
