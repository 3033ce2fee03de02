package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/subhero24/sql-graph-query/internal/audit"
	"github.com/subhero24/sql-graph-query/internal/executor"
	"github.com/subhero24/sql-graph-query/internal/lastquery"
	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/store"
	"github.com/subhero24/sql-graph-query/internal/ui"
)

var (
	queryFile   string
	queryArgs   []string
	queryMarker string
	queryList   bool
	queryLast   bool
)

var queryCmd = &cobra.Command{
	Use:     "query [query | file | name | -]",
	Aliases: []string{"q"},
	Short:   "Run a graph query",
	Long: `Run a graph query and print the nested result.

The query may be given inline, read from a file (markdown files run every
fenced code block tagged sgq, in order), read from stdin with "-", or named
from the [queries] table of the config file. --last runs the previous query
again, with its values unless new ones are passed.

Values bind to ${} markers in order. Each --arg is decoded as JSON when
possible, so numbers keep their type and arrays expand to a list of
placeholders; anything else binds as a string.`,
	Example: `  sgq query 'users WHERE name = ${} {
  	id
  }' --arg John
  sgq query 'cars WHERE id IN (${}) {
  	license
  }' --arg '["1","2"]'
  sgq query reports.md --json
  sgq query --last --arg Mary
  sgq query --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if queryList {
		return listSavedQueries(cmd)
	}

	roots, loaded, err := loadQueries(cmd, args)
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

	exec := executor.New(store.NewSQLAdapter(db, dialect), dialect, logger)

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner("Running query...")
		spinner.Start()
	}
	start := time.Now()
	results, err := executeAll(ctx, exec, roots)
	elapsed := time.Since(start)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		code := executionErrorCode(err)
		return handleError(out, code, err, executionSuggestion(code))
	}
	level.Info(logger).Log("msg", "query finished", "blocks", len(roots), "duration", elapsed)

	recordMutations(roots, results)
	rememberQuery(loaded)

	var data any = results
	if len(results) == 1 {
		data = results[0]
	}

	if isJSONOutput() {
		outputSuccess(out, data, &Meta{Count: countResult(data), QueryTimeMs: elapsed.Milliseconds()})
		return nil
	}
	return writeYAML(out, data)
}

// loadedQuery is the raw input behind a set of parsed blocks.
type loadedQuery struct {
	Source *querySource
	Args   []string
	Marker string
}

// loadQueries resolves the query source and parses every block with the
// --arg values bound. With --last the previous query is reused, along with
// its values and marker unless the flags override them.
func loadQueries(cmd *cobra.Command, args []string) ([]*query.Relation, *loadedQuery, error) {
	out := cmd.OutOrStdout()

	loaded := &loadedQuery{Args: queryArgs, Marker: queryMarker}
	if queryLast {
		if len(args) > 0 || queryFile != "" {
			return nil, nil, handleErrorMsg(out, ErrInvalidInput, "--last cannot be combined with a query", "")
		}
		lq, err := lastquery.Read(stateDir())
		if err != nil {
			if errors.Is(err, lastquery.ErrNoLastQuery) {
				return nil, nil, handleError(out, ErrQueryNotFound, err, "Run a query first")
			}
			return nil, nil, handleError(out, ErrFileReadError, err, "")
		}
		loaded.Source = &querySource{Name: lq.Source, Blocks: lq.Blocks}
		if !cmd.Flags().Changed("arg") {
			loaded.Args = lq.Args
		}
		if !cmd.Flags().Changed("marker") && lq.Marker != "" {
			loaded.Marker = lq.Marker
		}
	} else {
		src, err := resolveSource(cmd, queryFile, args)
		if err != nil {
			return nil, nil, handleSourceError(out, err)
		}
		loaded.Source = src
	}

	templates, err := buildTemplates(loaded.Source.Blocks, loaded.Marker, parseArgValues(loaded.Args))
	if err != nil {
		return nil, nil, handleError(out, ErrInvalidInput, err, "Pass one --arg per ${} marker")
	}

	roots := make([]*query.Relation, 0, len(templates))
	for i, t := range templates {
		root, err := query.Parse(t)
		if err != nil {
			if len(templates) > 1 {
				err = fmt.Errorf("block %d: %w", i+1, err)
			}
			return nil, nil, handleError(out, ErrQueryInvalid, err, "")
		}
		roots = append(roots, root)
	}
	return roots, loaded, nil
}

// stateDir is where sgq keeps state between runs: the config file's
// directory.
func stateDir() string {
	if resolvedConfigPath == "" {
		return ""
	}
	return filepath.Dir(resolvedConfigPath)
}

// rememberQuery records loaded for --last. Failures are logged, not
// returned.
func rememberQuery(loaded *loadedQuery) {
	dir := stateDir()
	if dir == "" {
		return
	}
	err := lastquery.Write(dir, &lastquery.LastQuery{
		Source: loaded.Source.Name,
		Blocks: loaded.Source.Blocks,
		Args:   loaded.Args,
		Marker: loaded.Marker,
	})
	if err != nil {
		level.Warn(logger).Log("msg", "failed to record last query", "err", err)
	}
}

// auditLogPath resolves the audit_log setting. Relative paths are taken
// from the config file's directory.
func auditLogPath() string {
	path := strings.TrimSpace(getConfig().AuditLog)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if dir := stateDir(); dir != "" {
		return filepath.Join(dir, path)
	}
	return path
}

// recordMutations appends every mutation block to the audit log.
func recordMutations(roots []*query.Relation, results []any) {
	auditLog := audit.New(auditLogPath())
	if !auditLog.Enabled() {
		return
	}
	for i, root := range roots {
		if err := auditLog.LogMutation(root, countResult(results[i])); err != nil {
			level.Warn(logger).Log("msg", "failed to write audit log", "err", err)
		}
	}
}

func handleSourceError(w io.Writer, err error) error {
	var srcErr *sourceError
	if errors.As(err, &srcErr) {
		return handleError(w, srcErr.code, err, "Pass the query inline, with --file, or as a saved query name (see 'sgq query --list')")
	}
	return handleError(w, ErrInvalidInput, err, "")
}

func executeAll(ctx context.Context, exec *executor.Executor, roots []*query.Relation) ([]any, error) {
	results := make([]any, 0, len(roots))
	for i, root := range roots {
		res, err := exec.Execute(ctx, root)
		if err != nil {
			if len(roots) > 1 {
				return nil, fmt.Errorf("block %d: %w", i+1, err)
			}
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func listSavedQueries(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	c := getConfig()
	names := c.QueryNames()

	if isJSONOutput() {
		outputSuccess(out, map[string]any{"queries": names}, &Meta{Count: len(names)})
		return nil
	}

	if len(names) == 0 {
		fmt.Fprintln(out, ui.Hint("No saved queries. Add one with 'sgq config save <name> <query>'."))
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		text, _ := c.SavedQuery(name)
		rows = append(rows, []string{name, firstLine(text)})
	}
	fmt.Fprintf(out, "%s %s\n\n", ui.Header("Saved queries"), ui.Hint(ui.Count(len(names), "name")))
	fmt.Fprintln(out, ui.RenderTable([]string{"NAME", "QUERY"}, rows))
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]) + " ..."
	}
	return s
}

func addQueryInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read the query from a file")
	cmd.Flags().StringArrayVarP(&queryArgs, "arg", "a", nil, "Value for the next ${} marker (repeatable, JSON-decoded)")
	cmd.Flags().StringVar(&queryMarker, "marker", query.DefaultMarker, "Placeholder marker separating interpolated values")
}

func addLastFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&queryLast, "last", false, "Reuse the previously run query")
}

func init() {
	addQueryInputFlags(queryCmd)
	queryCmd.Flags().BoolVarP(&queryList, "list", "l", false, "List saved queries")
	addLastFlag(queryCmd)
	rootCmd.AddCommand(queryCmd)
}
