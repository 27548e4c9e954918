package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/horn/internal/analysis"
	"github.com/roach88/horn/internal/ast"
	"github.com/roach88/horn/internal/store"
)

// SigOptions holds flags for the sig command.
type SigOptions struct {
	*RootOptions
	DB string // signature database path; empty disables persistence
}

// SignatureView is the JSON projection of one clause signature.
type SignatureView struct {
	Clause          string `json:"clause"`
	Signature       string `json:"signature"`
	FullyNormalised bool   `json:"fully_normalised"`
	SeenBefore      int    `json:"seen_before,omitempty"` // equivalent clauses already recorded
}

// NewSigCommand creates the sig command.
func NewSigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sig <program-file>",
		Short: "Print content-addressed clause signatures",
		Long: `Load a program description, normalise every clause, and print each
clause's content-addressed signature. With --db, signatures are recorded
in a SQLite database and previously seen equivalent clauses are reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSig(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "signature database path")

	return cmd
}

func runSig(opts *SigOptions, path string, cmd *cobra.Command) error {
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

	var db *store.Store
	if opts.DB != "" {
		db, err = store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening signature database", err)
		}
		defer db.Close()
	}

	ctx := context.Background()
	views := make([]SignatureView, 0, len(tu.Program().Clauses()))
	for _, clause := range tu.Program().Clauses() {
		view, err := signClause(ctx, db, tu, clause, norm.Get(clause))
		if err != nil {
			return WrapExitError(ExitCommandError, "recording signature", err)
		}
		views = append(views, view)
	}

	if opts.Format == "json" {
		return formatter.JSON(views)
	}
	for _, v := range views {
		fmt.Fprintf(formatter.Writer, "%s  %s", v.Signature, v.Clause)
		if v.SeenBefore > 0 {
			fmt.Fprintf(formatter.Writer, "  (%d equivalent recorded)", v.SeenBefore)
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

// signClause computes one clause's signature and, when a store is open,
// records it after counting previously recorded equivalents.
func signClause(ctx context.Context, db *store.Store, tu *ast.TranslationUnit, clause *ast.Clause, norm *analysis.NormalisedClause) (SignatureView, error) {
	sig, err := analysis.Signature(norm)
	if err != nil {
		return SignatureView{}, err
	}

	view := SignatureView{
		Clause:          ast.Sprint(clause, tu.Symbols()),
		Signature:       sig,
		FullyNormalised: norm.FullyNormalised(),
	}

	if db == nil {
		return view, nil
	}

	previous, err := db.Equivalents(ctx, sig)
	if err != nil {
		return SignatureView{}, err
	}
	view.SeenBefore = len(previous)

	err = db.RecordSignature(ctx, store.SignatureRecord{
		UnitID:          tu.ID(),
		Clause:          view.Clause,
		Signature:       sig,
		FullyNormalised: norm.FullyNormalised(),
	})
	if err != nil {
		return SignatureView{}, err
	}
	return view, nil
}
