package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subhero24/sql-graph-query/internal/schema"
	"github.com/subhero24/sql-graph-query/internal/store"
	"github.com/subhero24/sql-graph-query/internal/ui"
)

type columnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	JSON bool   `json:"json"`
}

type foreignKeyInfo struct {
	Column     string `json:"column"`
	References string `json:"references"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema <table>",
	Short: "Show the columns and foreign keys of a table",
	Long: `Show what the query compiler sees for a table: its columns (and which
can hold JSON documents) and the foreign keys used to resolve relations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		table := args[0]

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		db, dialect, err := openDatabase(ctx)
		if err != nil {
			return handleError(out, ErrDatabaseError, err, "Set driver and dsn in the config file or pass --driver and --dsn")
		}
		defer db.Close()

		in := schema.NewIntrospector(store.NewSQLAdapter(db, dialect), schema.CatalogFor(dialect))
		columns, err := in.Columns(ctx, table)
		if err != nil {
			return handleError(out, ErrDatabaseError, err, "")
		}
		if len(columns) == 0 {
			return handleErrorMsg(out, ErrTableNotFound, fmt.Sprintf("table %q not found", table), "")
		}
		fks, err := in.ForeignKeys(ctx, table)
		if err != nil {
			return handleError(out, ErrDatabaseError, err, "")
		}

		cols := make([]columnInfo, 0, len(columns))
		for _, c := range columns {
			cols = append(cols, columnInfo{Name: c.Name, Type: c.Type, JSON: c.Text})
		}
		refs := make([]foreignKeyInfo, 0, len(fks))
		for _, fk := range fks {
			to := fk.To
			if to == "" {
				to = "id"
			}
			refs = append(refs, foreignKeyInfo{Column: fk.From, References: fk.Table + "." + to})
		}

		if isJSONOutput() {
			outputSuccess(out, map[string]any{
				"table":        table,
				"columns":      cols,
				"foreign_keys": refs,
			}, &Meta{Count: len(cols)})
			return nil
		}

		rows := make([][]string, 0, len(cols))
		for _, c := range cols {
			doc := ""
			if c.JSON {
				doc = "yes"
			}
			rows = append(rows, []string{c.Name, c.Type, doc})
		}
		fmt.Fprintf(out, "%s %s\n\n", ui.Header(table), ui.Hint(ui.Count(len(cols), "column")))
		fmt.Fprintln(out, ui.RenderTable([]string{"COLUMN", "TYPE", "JSON"}, rows))

		if len(refs) > 0 {
			rows = rows[:0]
			for _, r := range refs {
				rows = append(rows, []string{r.Column, r.References})
			}
			fmt.Fprintf(out, "\n%s %s\n\n", ui.Header("Foreign keys"), ui.Hint(ui.Count(len(refs), "key")))
			fmt.Fprintln(out, ui.RenderTable([]string{"COLUMN", "REFERENCES"}, rows))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
