package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/horn/internal/ast"
)

const yamlProgram = `
clauses:
  - head:
      name: path
      args: [{var: X}, {var: Z}]
    body:
      - atom:
          name: edge
          args: [{var: X}, {var: Y}]
      - atom:
          name: path
          args: [{var: Y}, {var: Z}]
  - head:
      name: blocked
      args: [{var: X}]
    body:
      - not:
          name: open
          args: [{var: X}]
      - constraint:
          op: "!="
          lhs: {var: X}
          rhs: {num: 0}
`

func TestCompileYAML(t *testing.T) {
	st := ast.NewSymbolTable()
	prog, err := CompileYAML([]byte(yamlProgram), st)
	require.NoError(t, err)
	require.Len(t, prog.Clauses(), 2)

	assert.Equal(t, "path(X,Z) :- edge(X,Y), path(Y,Z).", ast.Sprint(prog.Clauses()[0], st))
	assert.Equal(t, "blocked(X) :- !open(X), X != 0.", ast.Sprint(prog.Clauses()[1], st))
}

func TestCompileYAMLArgumentVariants(t *testing.T) {
	st := ast.NewSymbolTable()
	data := []byte(`
clauses:
  - head:
      name: r
      args:
        - {str: hello}
        - {num: 42}
        - {nil: true}
        - {unnamed: true}
        - functor:
            op: "+"
            args: [{var: X}, {num: 1}]
        - functor:
            op: "@dist"
            args: [{var: X}, {var: Y}]
        - cast:
            value: {num: 7}
            type: graph.Weight
        - agg:
            op: min
            target: {var: W}
            body:
              - atom:
                  name: weight
                  args: [{var: W}]
`)
	prog, err := CompileYAML(data, st)
	require.NoError(t, err)
	require.Len(t, prog.Clauses(), 1)

	assert.Equal(t,
		`r("hello",42,-,_,(X+1),@dist(X,Y),7 as graph.Weight,min W : { weight(W) }).`,
		ast.Sprint(prog.Clauses()[0], st))
}

func TestCompileYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing atom name", `
clauses:
  - head:
      args: [{var: X}]
`},
		{"unknown comparison", `
clauses:
  - head: {name: r, args: [{var: X}]}
    body:
      - constraint: {op: "==", lhs: {var: X}, rhs: {num: 0}}
`},
		{"empty literal", `
clauses:
  - head: {name: r, args: [{var: X}]}
    body:
      - {}
`},
		{"unknown functor", `
clauses:
  - head:
      name: r
      args:
        - functor: {op: bogus, args: [{var: X}]}
`},
		{"unknown aggregator", `
clauses:
  - head:
      name: r
      args:
        - agg: {op: avg, body: []}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileYAML([]byte(tt.data), ast.NewSymbolTable())
			assert.Error(t, err)
		})
	}
}

func TestCompileCUE(t *testing.T) {
	st := ast.NewSymbolTable()
	data := []byte(`
clauses: [
	{
		head: {name: "r", args: [{var: "X"}]}
		body: [
			{atom: {name: "s", args: [{var: "X"}, {str: "a"}]}},
		]
	},
]
`)
	prog, err := CompileCUE(data, st)
	require.NoError(t, err)
	require.Len(t, prog.Clauses(), 1)
	assert.Equal(t, `r(X) :- s(X,"a").`, ast.Sprint(prog.Clauses()[0], st))
}

func TestCompileCUEBadInput(t *testing.T) {
	_, err := CompileCUE([]byte(`clauses: [{head: {`), ast.NewSymbolTable())
	assert.Error(t, err)
}

func TestCompileYAMLPopulatesSrcLoc(t *testing.T) {
	st := ast.NewSymbolTable()
	data := []byte("clauses:\n" +
		"  - head:\n" +
		"      name: r\n" +
		"      args: [{var: X}]\n" +
		"    body:\n" +
		"      - atom:\n" +
		"          name: s\n" +
		"          args: [{var: X}]\n")

	prog, err := CompileYAML(data, st)
	require.NoError(t, err)
	require.Len(t, prog.Clauses(), 1)
	clause := prog.Clauses()[0]

	require.True(t, clause.Loc().IsValid())
	assert.Equal(t, 2, clause.Loc().StartLine)

	head := clause.Head()
	require.True(t, head.Loc().IsValid())
	assert.Equal(t, 3, head.Loc().StartLine)

	arg := head.Args()[0]
	require.True(t, arg.Loc().IsValid())
	assert.Equal(t, 4, arg.Loc().StartLine)

	body := clause.Body()[0].(*ast.Atom)
	require.True(t, body.Loc().IsValid())
	assert.Equal(t, 7, body.Loc().StartLine)
	require.True(t, body.Args()[0].Loc().IsValid())
	assert.Equal(t, 8, body.Args()[0].Loc().StartLine)
}

func TestCompileCUEPopulatesSrcLoc(t *testing.T) {
	st := ast.NewSymbolTable()
	data := []byte(`
clauses: [
	{
		head: {name: "r", args: [{var: "X"}]}
		body: [{atom: {name: "s", args: [{var: "X"}]}}]
	},
]
`)

	prog, err := CompileCUE(data, st)
	require.NoError(t, err)
	require.Len(t, prog.Clauses(), 1)
	clause := prog.Clauses()[0]

	assert.True(t, clause.Loc().IsValid())
	assert.True(t, clause.Head().Loc().IsValid())
	assert.True(t, clause.Head().Args()[0].Loc().IsValid())
	body := clause.Body()[0].(*ast.Atom)
	assert.True(t, body.Loc().IsValid())
}

func TestLoadProgramRecordsFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlProgram), 0o644))

	st := ast.NewSymbolTable()
	prog, err := LoadProgram(path, st)
	require.NoError(t, err)

	clause := prog.Clauses()[0]
	require.True(t, clause.Loc().IsValid())
	assert.Equal(t, path, clause.Loc().File)
	assert.Equal(t, path, clause.Head().Loc().File)
}

func TestLoadProgramDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlProgram), 0o644))

	st := ast.NewSymbolTable()
	prog, err := LoadProgram(path, st)
	require.NoError(t, err)
	assert.Len(t, prog.Clauses(), 2)

	txtPath := filepath.Join(dir, "prog.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(yamlProgram), 0o644))
	_, err = LoadProgram(txtPath, st)
	assert.Error(t, err)
}

func TestLoadTranslationUnit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlProgram), 0o644))

	tu, err := LoadTranslationUnit(path)
	require.NoError(t, err)
	assert.NotEmpty(t, tu.ID())
	assert.Len(t, tu.Program().Clauses(), 2)

	other, err := LoadTranslationUnit(path)
	require.NoError(t, err)
	assert.NotEqual(t, tu.ID(), other.ID())
}
