package analysis

import (
	"fmt"
	"io"

	"github.com/roach88/horn/internal/ast"
)

// Analysis is a named computation over a translation unit producing
// immutable per-clause results. Run must be invoked exactly once per
// translation unit; a second Run is a programming error.
type Analysis interface {
	// Name identifies the analysis in the registry.
	Name() string

	// Run computes the analysis results for the unit.
	Run(tu *ast.TranslationUnit)

	// Print serialises the results for diagnostics.
	Print(w io.Writer)
}

// Registry runs analyses over one translation unit and caches their
// results. Analyses run lazily on first Get.
type Registry struct {
	tu       *ast.TranslationUnit
	analyses map[string]Analysis
	order    []string
	ran      map[string]bool
}

// NewRegistry creates a registry bound to a translation unit.
func NewRegistry(tu *ast.TranslationUnit) *Registry {
	return &Registry{
		tu:       tu,
		analyses: make(map[string]Analysis),
		ran:      make(map[string]bool),
	}
}

// Register adds an analysis. Registering two analyses under one name is a
// programming error and panics.
func (r *Registry) Register(a Analysis) {
	name := a.Name()
	if _, ok := r.analyses[name]; ok {
		panic(fmt.Sprintf("analysis %q registered twice", name))
	}
	r.analyses[name] = a
	r.order = append(r.order, name)
}

// Get returns the named analysis, running it first if it has not run yet.
// Requesting an unregistered analysis is a programming error and panics.
func (r *Registry) Get(name string) Analysis {
	a, ok := r.analyses[name]
	if !ok {
		panic(fmt.Sprintf("analysis %q not registered", name))
	}
	if !r.ran[name] {
		a.Run(r.tu)
		r.ran[name] = true
	}
	return a
}

// Print serialises every analysis that has run, in registration order.
func (r *Registry) Print(w io.Writer) {
	for _, name := range r.order {
		if r.ran[name] {
			r.analyses[name].Print(w)
		}
	}
}

// ClauseNormalisationName is the registry name of the clause
// normalisation analysis.
const ClauseNormalisationName = "clause-normalisation"

// ClauseNormalisation computes one NormalisedClause per clause of a
// translation unit, keyed by clause identity.
type ClauseNormalisation struct {
	tu             *ast.TranslationUnit
	clauses        []*ast.Clause // insertion order, for deterministic Print
	normalisations map[*ast.Clause]*NormalisedClause
}

// NewClauseNormalisation creates an unrun clause normalisation analysis.
func NewClauseNormalisation() *ClauseNormalisation {
	return &ClauseNormalisation{
		normalisations: make(map[*ast.Clause]*NormalisedClause),
	}
}

// Name implements Analysis.
func (a *ClauseNormalisation) Name() string { return ClauseNormalisationName }

// Run normalises every clause of the unit. Running twice, or encountering
// the same clause pointer twice, is a programming error and panics.
func (a *ClauseNormalisation) Run(tu *ast.TranslationUnit) {
	if a.tu != nil {
		panic("clause normalisation already run for a translation unit")
	}
	a.tu = tu
	for _, clause := range tu.Program().Clauses() {
		if _, ok := a.normalisations[clause]; ok {
			panic(fmt.Sprintf("clause already processed: %s", ast.Sprint(clause, tu.Symbols())))
		}
		a.clauses = append(a.clauses, clause)
		a.normalisations[clause] = NewNormalisedClause(clause, tu.Symbols())
	}
}

// Get returns the normal form cached for a clause, or nil if the clause is
// not part of the analysed unit.
func (a *ClauseNormalisation) Get(clause *ast.Clause) *NormalisedClause {
	return a.normalisations[clause]
}

// Print implements Analysis. Each clause serialises as
// Normalise(<clause>) = {name:[params], ...} in unit order.
func (a *ClauseNormalisation) Print(w io.Writer) {
	for _, clause := range a.clauses {
		norm := a.normalisations[clause]
		fmt.Fprintf(w, "Normalise(%s) = {", ast.Sprint(clause, a.tu.Symbols()))
		for i, el := range norm.Elements() {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			io.WriteString(w, el.String())
		}
		io.WriteString(w, "}\n")
	}
}
