package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subhero24/sql-graph-query/internal/executor"
	"github.com/subhero24/sql-graph-query/internal/store"
	"github.com/subhero24/sql-graph-query/internal/ui"
)

// explainedStatement is one statement issued while resolving a query.
type explainedStatement struct {
	// Kind is "query" for a one-off statement, "prepared" for a statement
	// prepared once and run per parent row.
	Kind string  `json:"kind"`
	SQL  string  `json:"sql"`
	Runs int     `json:"runs"`
	Args [][]any `json:"args,omitempty"`
}

var explainCmd = &cobra.Command{
	Use:   "explain [query | file | name | -]",
	Short: "Show the SQL a query issues",
	Long: `Run a query inside a transaction that is always rolled back and list
every statement it issued, including catalog lookups, with the values bound
on each run. Mutations are safe to explain: nothing is committed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	roots, _, err := loadQueries(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, dialect, err := openDatabase(ctx)
	if err != nil {
		return handleError(out, ErrDatabaseError, err, "Set driver and dsn in the config file or pass --driver and --dsn")
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return handleError(out, ErrDatabaseError, fmt.Errorf("failed to begin transaction: %w", err), "")
	}
	defer tx.Rollback()

	rec := store.NewRecorder(store.NewSQLAdapter(tx, dialect))
	if _, err := executeAll(ctx, executor.New(rec, dialect, logger), roots); err != nil {
		code := executionErrorCode(err)
		return handleError(out, code, err, executionSuggestion(code))
	}

	statements := collectStatements(rec.Calls)

	if isJSONOutput() {
		outputSuccess(out, map[string]any{"statements": statements}, &Meta{Statements: len(statements)})
		return nil
	}

	md := explainMarkdown(statements)
	display := ui.NewDisplayContext()
	if !display.IsTTY {
		fmt.Fprint(out, md)
		return nil
	}
	rendered, err := ui.RenderMarkdown(md, display.TermWidth)
	if err != nil {
		fmt.Fprint(out, md)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}

// collectStatements folds recorded calls into statements, attaching each
// run to the prepared statement it executed.
func collectStatements(calls []store.Recorded) []explainedStatement {
	var statements []explainedStatement
	open := make(map[string]int)

	for _, call := range calls {
		switch call.Kind {
		case "all":
			statements = append(statements, explainedStatement{
				Kind: "query",
				SQL:  call.SQL,
				Runs: 1,
				Args: [][]any{call.Args},
			})
		case "prepare":
			open[call.SQL] = len(statements)
			statements = append(statements, explainedStatement{Kind: "prepared", SQL: call.SQL})
		case "run":
			if i, ok := open[call.SQL]; ok {
				statements[i].Runs++
				statements[i].Args = append(statements[i].Args, call.Args)
			}
		case "finalize":
			delete(open, call.SQL)
		}
	}
	return statements
}

func explainMarkdown(statements []explainedStatement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pluralize(len(statements), "statement"))

	for i, st := range statements {
		fmt.Fprintf(&b, "## %d. %s, %s\n\n", i+1, st.Kind, pluralize(st.Runs, "run"))
		fmt.Fprintf(&b, "```sql\n%s\n```\n\n", st.SQL)

		for _, args := range st.Args {
			if len(args) == 0 {
				continue
			}
			encoded, err := json.MarshalToString(args)
			if err != nil {
				encoded = fmt.Sprint(args)
			}
			fmt.Fprintf(&b, "- `%s`\n", encoded)
		}
		if hasArgs(st.Args) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func pluralize(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func hasArgs(runs [][]any) bool {
	for _, args := range runs {
		if len(args) > 0 {
			return true
		}
	}
	return false
}

func init() {
	addQueryInputFlags(explainCmd)
	addLastFlag(explainCmd)
	rootCmd.AddCommand(explainCmd)
}
