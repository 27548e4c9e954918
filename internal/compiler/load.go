package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/horn/internal/ast"
)

// CompileYAML builds a program from a YAML description, interning string
// constants in st. Node positions come from the YAML document.
func CompileYAML(data []byte, st *ast.SymbolTable) (*ast.Program, error) {
	return compileYAML(data, "", st)
}

func compileYAML(data []byte, file string, st *ast.SymbolTable) (*ast.Program, error) {
	var desc programDesc
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse yaml program: %w", err)
	}
	return buildProgram(&desc, file, st)
}

// CompileCUE builds a program from a CUE description. The top-level value
// must unify with the program description schema. Node positions come
// from the CUE source.
func CompileCUE(data []byte, st *ast.SymbolTable) (*ast.Program, error) {
	return compileCUE(data, "", st)
}

func compileCUE(data []byte, file string, st *ast.SymbolTable) (*ast.Program, error) {
	ctx := cuecontext.New()
	var opts []cue.BuildOption
	if file != "" {
		opts = append(opts, cue.Filename(file))
	}
	v := ctx.CompileBytes(data, opts...)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var desc programDesc
	if err := v.Decode(&desc); err != nil {
		return nil, formatCUEError(err)
	}
	fillProgramPositions(v, &desc)
	return buildProgram(&desc, file, st)
}

// LoadProgram reads a program description file, dispatching on extension
// (.cue, .yaml, .yml).
func LoadProgram(path string, st *ast.SymbolTable) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return compileCUE(data, path, st)
	case ".yaml", ".yml":
		return compileYAML(data, path, st)
	default:
		return nil, fieldError("file", "unsupported program format %q (want .cue, .yaml, or .yml)", filepath.Ext(path))
	}
}

// LoadTranslationUnit loads a program and wraps it with a fresh symbol
// table under a new unit identity.
func LoadTranslationUnit(path string) (*ast.TranslationUnit, error) {
	st := ast.NewSymbolTable()
	prog, err := LoadProgram(path, st)
	if err != nil {
		return nil, err
	}
	return ast.NewTranslationUnit(prog, st), nil
}

// The fill*Positions walkers mirror the description structure over the
// decoded CUE value and record each node's source position. cue's Decode
// drops positions, so the walk runs beside it rather than through it.

func fillProgramPositions(v cue.Value, desc *programDesc) {
	clauses := v.LookupPath(cue.ParsePath("clauses"))
	iter, err := clauses.List()
	if err != nil {
		return
	}
	for i := 0; iter.Next() && i < len(desc.Clauses); i++ {
		fillClausePositions(iter.Value(), &desc.Clauses[i])
	}
}

func fillClausePositions(v cue.Value, desc *clauseDesc) {
	desc.pos = posOf(v)
	fillAtomPositions(v.LookupPath(cue.ParsePath("head")), &desc.Head)

	body := v.LookupPath(cue.ParsePath("body"))
	iter, err := body.List()
	if err != nil {
		return
	}
	for i := 0; iter.Next() && i < len(desc.Body); i++ {
		fillLiteralPositions(iter.Value(), &desc.Body[i])
	}
}

func fillAtomPositions(v cue.Value, desc *atomDesc) {
	if !v.Exists() {
		return
	}
	desc.pos = posOf(v)

	args := v.LookupPath(cue.ParsePath("args"))
	iter, err := args.List()
	if err != nil {
		return
	}
	for i := 0; iter.Next() && i < len(desc.Args); i++ {
		fillArgPositions(iter.Value(), &desc.Args[i])
	}
}

func fillLiteralPositions(v cue.Value, desc *literalDesc) {
	desc.pos = posOf(v)
	switch {
	case desc.Atom != nil:
		fillAtomPositions(v.LookupPath(cue.ParsePath("atom")), desc.Atom)
	case desc.Not != nil:
		fillAtomPositions(v.LookupPath(cue.ParsePath("not")), desc.Not)
	case desc.Constraint != nil:
		cv := v.LookupPath(cue.ParsePath("constraint"))
		if !cv.Exists() {
			return
		}
		fillArgPositions(cv.LookupPath(cue.ParsePath("lhs")), &desc.Constraint.LHS)
		fillArgPositions(cv.LookupPath(cue.ParsePath("rhs")), &desc.Constraint.RHS)
	}
}

func fillArgPositions(v cue.Value, desc *argDesc) {
	if !v.Exists() {
		return
	}
	desc.pos = posOf(v)

	switch {
	case desc.Functor != nil:
		fillArgList(v.LookupPath(cue.ParsePath("functor.args")), desc.Functor.Args)
	case desc.Record != nil:
		fillArgList(v.LookupPath(cue.ParsePath("record")), desc.Record)
	case desc.Cast != nil:
		fillArgPositions(v.LookupPath(cue.ParsePath("cast.value")), &desc.Cast.Value)
	case desc.Agg != nil:
		av := v.LookupPath(cue.ParsePath("agg"))
		if !av.Exists() {
			return
		}
		if desc.Agg.Target != nil {
			fillArgPositions(av.LookupPath(cue.ParsePath("target")), desc.Agg.Target)
		}
		body := av.LookupPath(cue.ParsePath("body"))
		iter, err := body.List()
		if err != nil {
			return
		}
		for i := 0; iter.Next() && i < len(desc.Agg.Body); i++ {
			fillLiteralPositions(iter.Value(), &desc.Agg.Body[i])
		}
	}
}

func fillArgList(v cue.Value, descs []argDesc) {
	if !v.Exists() {
		return
	}
	iter, err := v.List()
	if err != nil {
		return
	}
	for i := 0; iter.Next() && i < len(descs); i++ {
		fillArgPositions(iter.Value(), &descs[i])
	}
}

// posOf projects a cue value's source position into a description
// position; values without one keep the zero position.
func posOf(v cue.Value) descPos {
	p := v.Pos()
	if !p.IsValid() {
		return descPos{}
	}
	return descPos{file: p.Filename(), line: p.Line(), col: p.Column()}
}
