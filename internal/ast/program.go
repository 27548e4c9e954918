package ast

import (
	"io"

	"github.com/google/uuid"
)

// Program is the root of a parsed translation unit: the collection of
// clauses built by the loader. It owns every clause; destroying the
// program releases the whole tree.
type Program struct {
	clauses []*Clause
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{}
}

// AddClause appends a clause, taking ownership.
func (p *Program) AddClause(c *Clause) {
	p.clauses = append(p.clauses, c)
}

// Clauses returns the clauses in declaration order. The slice is borrowed.
func (p *Program) Clauses() []*Clause {
	return p.clauses
}

// Print emits every clause, one per line.
func (p *Program) Print(w io.Writer, st *SymbolTable) {
	for _, c := range p.clauses {
		c.Print(w, st)
		io.WriteString(w, "\n")
	}
}

// TranslationUnit couples a program with the symbol table its string
// constants are interned in. Analyses run over a translation unit and key
// their cached results by clause identity.
//
// A translation unit is single-threaded; independent units may be
// processed in parallel since each owns its table and AST root.
type TranslationUnit struct {
	id      string
	program *Program
	symbols *SymbolTable
}

// NewTranslationUnit wraps a program and its symbol table under a fresh
// unit identity.
func NewTranslationUnit(program *Program, symbols *SymbolTable) *TranslationUnit {
	return &TranslationUnit{
		id:      uuid.NewString(),
		program: program,
		symbols: symbols,
	}
}

// ID returns the unit identity token.
func (tu *TranslationUnit) ID() string { return tu.id }

// Program returns the owned program.
func (tu *TranslationUnit) Program() *Program { return tu.program }

// Symbols returns the unit's symbol table.
func (tu *TranslationUnit) Symbols() *SymbolTable { return tu.symbols }
