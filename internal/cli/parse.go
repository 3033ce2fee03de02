package cli

import (
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [query | file | name | -]",
	Short: "Print the query tree without running it",
	Long: `Parse a query and print its relation tree: the type, raw SQL with
placeholders, bound variables, attributes and nested relations of every
level. No database connection is made.`,
	Example: `  sgq parse reports.md
  sgq parse 'users WHERE name = ${} {
  	id
  }' --arg John --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, _, err := loadQueries(cmd, args)
		if err != nil {
			return err
		}

		var data any = roots
		if len(roots) == 1 {
			data = roots[0]
		}

		if isJSONOutput() {
			outputSuccess(cmd.OutOrStdout(), data, &Meta{Count: len(roots)})
			return nil
		}
		return writeYAML(cmd.OutOrStdout(), data)
	},
}

func init() {
	addQueryInputFlags(parseCmd)
	addLastFlag(parseCmd)
	rootCmd.AddCommand(parseCmd)
}
