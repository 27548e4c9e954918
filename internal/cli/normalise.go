package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/horn/internal/analysis"
	"github.com/roach88/horn/internal/ast"
	"github.com/roach88/horn/internal/compiler"
)

// NormalisedClauseView is the JSON projection of one clause's normal form.
type NormalisedClauseView struct {
	Clause          string        `json:"clause"`
	Elements        []ElementView `json:"elements"`
	Constants       []string      `json:"constants"`
	Variables       []string      `json:"variables"`
	FullyNormalised bool          `json:"fully_normalised"`
}

// ElementView is the JSON projection of one normalised element.
type ElementView struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
}

// NewNormaliseCommand creates the normalise command.
func NewNormaliseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalise <program-file>",
		Short: "Print the canonical flat form of every clause",
		Long: `Load a program description (.cue, .yaml, .yml), run the clause
normalisation analysis, and print each clause's canonical flat form.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalise(rootOpts, args[0], cmd)
		},
	}
}

func runNormalise(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	norm, tu, err := normaliseProgram(formatter, path)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		views := make([]NormalisedClauseView, 0, len(tu.Program().Clauses()))
		for _, clause := range tu.Program().Clauses() {
			views = append(views, viewOf(clause, norm.Get(clause), tu.Symbols()))
		}
		return formatter.JSON(views)
	}

	norm.Print(formatter.Writer)
	return nil
}

// normaliseProgram loads a program and runs the clause normalisation
// analysis over it.
func normaliseProgram(formatter *OutputFormatter, path string) (*analysis.ClauseNormalisation, *ast.TranslationUnit, error) {
	tu, err := compiler.LoadTranslationUnit(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "loading program", err)
	}
	formatter.VerboseLog("Loaded %d clause(s) from %s (unit %s)", len(tu.Program().Clauses()), path, tu.ID())

	registry := analysis.NewRegistry(tu)
	registry.Register(analysis.NewClauseNormalisation())
	norm := registry.Get(analysis.ClauseNormalisationName).(*analysis.ClauseNormalisation)
	return norm, tu, nil
}

func viewOf(clause *ast.Clause, norm *analysis.NormalisedClause, st *ast.SymbolTable) NormalisedClauseView {
	elements := make([]ElementView, 0, len(norm.Elements()))
	for _, el := range norm.Elements() {
		params := el.Params
		if params == nil {
			params = []string{}
		}
		elements = append(elements, ElementView{Name: el.Name.String(), Params: params})
	}
	return NormalisedClauseView{
		Clause:          ast.Sprint(clause, st),
		Elements:        elements,
		Constants:       norm.Constants(),
		Variables:       norm.Variables(),
		FullyNormalised: norm.FullyNormalised(),
	}
}
