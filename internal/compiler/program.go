package compiler

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/horn/internal/ast"
)

// descPos is the source position captured for a description node: from
// yaml.Node line/column during YAML decoding, or from cue token positions
// after CUE decoding. The zero value means "no position known".
type descPos struct {
	file string
	line int
	col  int
}

// srcLoc converts a captured position into a node location. file is the
// loader's fallback when the position carries no filename of its own.
func (p descPos) srcLoc(file string) ast.SrcLoc {
	if p.line == 0 {
		return ast.SrcLoc{}
	}
	f := p.file
	if f == "" {
		f = file
	}
	return ast.SrcLoc{
		File:      f,
		StartLine: p.line,
		StartCol:  p.col,
		EndLine:   p.line,
		EndCol:    p.col,
	}
}

// programDesc is the raw structural description of a program, shared by
// the YAML and CUE front ends.
type programDesc struct {
	Clauses []clauseDesc `yaml:"clauses" json:"clauses"`
}

type clauseDesc struct {
	Head atomDesc      `yaml:"head" json:"head"`
	Body []literalDesc `yaml:"body" json:"body"`

	pos descPos
}

type atomDesc struct {
	Name string    `yaml:"name" json:"name"`
	Args []argDesc `yaml:"args" json:"args"`

	pos descPos
}

// literalDesc is a tagged union: exactly one of the fields is set.
type literalDesc struct {
	Atom       *atomDesc       `yaml:"atom,omitempty" json:"atom,omitempty"`
	Not        *atomDesc       `yaml:"not,omitempty" json:"not,omitempty"`
	Constraint *constraintDesc `yaml:"constraint,omitempty" json:"constraint,omitempty"`

	pos descPos
}

type constraintDesc struct {
	Op  string  `yaml:"op" json:"op"`
	LHS argDesc `yaml:"lhs" json:"lhs"`
	RHS argDesc `yaml:"rhs" json:"rhs"`
}

// argDesc is a tagged union over the argument variants: exactly one of
// the fields is set.
type argDesc struct {
	Var     *string      `yaml:"var,omitempty" json:"var,omitempty"`
	Unnamed bool         `yaml:"unnamed,omitempty" json:"unnamed,omitempty"`
	Counter bool         `yaml:"counter,omitempty" json:"counter,omitempty"`
	Str     *string      `yaml:"str,omitempty" json:"str,omitempty"`
	Num     *int64       `yaml:"num,omitempty" json:"num,omitempty"`
	Nil     bool         `yaml:"nil,omitempty" json:"nil,omitempty"`
	Functor *functorDesc `yaml:"functor,omitempty" json:"functor,omitempty"`
	Record  []argDesc    `yaml:"record,omitempty" json:"record,omitempty"`
	Cast    *castDesc    `yaml:"cast,omitempty" json:"cast,omitempty"`
	Agg     *aggDesc     `yaml:"agg,omitempty" json:"agg,omitempty"`
	SubArg  *int         `yaml:"subarg,omitempty" json:"subarg,omitempty"`

	pos descPos
}

// functorDesc covers both intrinsic functors (op is an operator symbol)
// and user-defined functors (op starts with "@").
type functorDesc struct {
	Op   string    `yaml:"op" json:"op"`
	Args []argDesc `yaml:"args" json:"args"`
}

type castDesc struct {
	Value argDesc `yaml:"value" json:"value"`
	Type  string  `yaml:"type" json:"type"`
}

type aggDesc struct {
	Op     string        `yaml:"op" json:"op"`
	Target *argDesc      `yaml:"target,omitempty" json:"target,omitempty"`
	Body   []literalDesc `yaml:"body" json:"body"`
}

// The UnmarshalYAML hooks decode through a method-less alias and then
// record the node's own line/column, so positions survive the parse
// boundary and land in SrcLoc during building.

func (d *clauseDesc) UnmarshalYAML(n *yaml.Node) error {
	type raw clauseDesc
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = descPos{line: n.Line, col: n.Column}
	return nil
}

func (d *atomDesc) UnmarshalYAML(n *yaml.Node) error {
	type raw atomDesc
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = descPos{line: n.Line, col: n.Column}
	return nil
}

func (d *literalDesc) UnmarshalYAML(n *yaml.Node) error {
	type raw literalDesc
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = descPos{line: n.Line, col: n.Column}
	return nil
}

func (d *argDesc) UnmarshalYAML(n *yaml.Node) error {
	type raw argDesc
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = descPos{line: n.Line, col: n.Column}
	return nil
}

// buildProgram converts a raw description into an owned AST, interning
// string constants in st. file names the loaded source for diagnostics.
func buildProgram(desc *programDesc, file string, st *ast.SymbolTable) (*ast.Program, error) {
	prog := ast.NewProgram()
	for i, cd := range desc.Clauses {
		clause, err := buildClause(&cd, file, st)
		if err != nil {
			return nil, fieldError("clauses", "clause %d: %v", i, err)
		}
		prog.AddClause(clause)
	}
	return prog, nil
}

func buildClause(desc *clauseDesc, file string, st *ast.SymbolTable) (*ast.Clause, error) {
	head, err := buildAtom(&desc.Head, file, st)
	if err != nil {
		return nil, err
	}
	clause := ast.NewClause(head)
	clause.SetLoc(desc.pos.srcLoc(file))
	for i, ld := range desc.Body {
		lit, err := buildLiteral(&ld, file, st)
		if err != nil {
			return nil, fieldError("body", "literal %d: %v", i, err)
		}
		clause.AddToBody(lit)
	}
	return clause, nil
}

func buildAtom(desc *atomDesc, file string, st *ast.SymbolTable) (*ast.Atom, error) {
	if desc.Name == "" {
		return nil, fieldError("atom", "atom name is required")
	}
	atom := ast.NewAtom(ast.NewQualifiedName(strings.Split(desc.Name, ".")...))
	atom.SetLoc(desc.pos.srcLoc(file))
	for i, ad := range desc.Args {
		arg, err := buildArgument(&ad, file, st)
		if err != nil {
			return nil, fieldError("atom", "%s arg %d: %v", desc.Name, i, err)
		}
		atom.Add(arg)
	}
	return atom, nil
}

func buildLiteral(desc *literalDesc, file string, st *ast.SymbolTable) (ast.Literal, error) {
	switch {
	case desc.Atom != nil:
		return buildAtom(desc.Atom, file, st)
	case desc.Not != nil:
		atom, err := buildAtom(desc.Not, file, st)
		if err != nil {
			return nil, err
		}
		neg := ast.NewNegation(atom)
		neg.SetLoc(desc.pos.srcLoc(file))
		return neg, nil
	case desc.Constraint != nil:
		op, ok := ast.CmpOpForSymbol(desc.Constraint.Op)
		if !ok {
			return nil, fieldError("constraint", "unknown comparison operator %q", desc.Constraint.Op)
		}
		lhs, err := buildArgument(&desc.Constraint.LHS, file, st)
		if err != nil {
			return nil, err
		}
		rhs, err := buildArgument(&desc.Constraint.RHS, file, st)
		if err != nil {
			return nil, err
		}
		bc := ast.NewBinaryConstraint(op, lhs, rhs)
		bc.SetLoc(desc.pos.srcLoc(file))
		return bc, nil
	default:
		return nil, fieldError("literal", "one of atom, not, constraint is required")
	}
}

func buildArgument(desc *argDesc, file string, st *ast.SymbolTable) (ast.Argument, error) {
	arg, err := buildArgumentVariant(desc, file, st)
	if err != nil {
		return nil, err
	}
	arg.SetLoc(desc.pos.srcLoc(file))
	return arg, nil
}

func buildArgumentVariant(desc *argDesc, file string, st *ast.SymbolTable) (ast.Argument, error) {
	switch {
	case desc.Var != nil:
		return ast.NewVariable(*desc.Var), nil
	case desc.Unnamed:
		return ast.NewUnnamedVariable(), nil
	case desc.Counter:
		return ast.NewCounter(), nil
	case desc.Str != nil:
		return ast.NewStringConstant(st, *desc.Str), nil
	case desc.Num != nil:
		return ast.NewNumericConstant(*desc.Num), nil
	case desc.Nil:
		return ast.NewNilConstant(), nil
	case desc.Functor != nil:
		return buildFunctor(desc.Functor, file, st)
	case desc.Record != nil:
		rec := ast.NewRecordInit()
		for i := range desc.Record {
			arg, err := buildArgument(&desc.Record[i], file, st)
			if err != nil {
				return nil, fieldError("record", "component %d: %v", i, err)
			}
			rec.Add(arg)
		}
		return rec, nil
	case desc.Cast != nil:
		value, err := buildArgument(&desc.Cast.Value, file, st)
		if err != nil {
			return nil, err
		}
		if desc.Cast.Type == "" {
			return nil, fieldError("cast", "target type is required")
		}
		typ := ast.NewQualifiedName(strings.Split(desc.Cast.Type, ".")...)
		return ast.NewTypeCast(value, typ), nil
	case desc.Agg != nil:
		return buildAggregator(desc.Agg, file, st)
	case desc.SubArg != nil:
		if *desc.SubArg < 0 {
			return nil, fieldError("subarg", "index must be non-negative, got %d", *desc.SubArg)
		}
		return ast.NewSubroutineArg(*desc.SubArg), nil
	default:
		return nil, fieldError("argument", "one of var, unnamed, counter, str, num, nil, functor, record, cast, agg, subarg is required")
	}
}

func buildFunctor(desc *functorDesc, file string, st *ast.SymbolTable) (ast.Argument, error) {
	args := make([]ast.Argument, 0, len(desc.Args))
	for i := range desc.Args {
		arg, err := buildArgument(&desc.Args[i], file, st)
		if err != nil {
			return nil, fieldError("functor", "%s arg %d: %v", desc.Op, i, err)
		}
		args = append(args, arg)
	}

	if name, ok := strings.CutPrefix(desc.Op, "@"); ok {
		return ast.NewUserFunctor(name, args...), nil
	}

	op, ok := ast.FunctorOpForSymbol(desc.Op, len(args))
	if !ok {
		return nil, fieldError("functor", "no intrinsic %q of arity %d", desc.Op, len(args))
	}
	return ast.NewIntrinsicFunctor(op, args...), nil
}

func buildAggregator(desc *aggDesc, file string, st *ast.SymbolTable) (ast.Argument, error) {
	op, ok := ast.AggregatorOpForSymbol(desc.Op)
	if !ok {
		return nil, fieldError("agg", "unknown aggregation operator %q", desc.Op)
	}
	agg := ast.NewAggregator(op)
	if desc.Target != nil {
		target, err := buildArgument(desc.Target, file, st)
		if err != nil {
			return nil, err
		}
		agg.SetTarget(target)
	}
	for i := range desc.Body {
		lit, err := buildLiteral(&desc.Body[i], file, st)
		if err != nil {
			return nil, fieldError("agg", "body literal %d: %v", i, err)
		}
		agg.AddBodyLiteral(lit)
	}
	return agg, nil
}
