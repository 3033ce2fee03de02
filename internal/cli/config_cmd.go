package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subhero24/sql-graph-query/internal/config"
	"github.com/subhero24/sql-graph-query/internal/query"
	"github.com/subhero24/sql-graph-query/internal/slugs"
	"github.com/subhero24/sql-graph-query/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sgq config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := config.ResolveConfigPath(configPath)

		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(out, map[string]any{"config_path": path, "created": created}, nil)
			return nil
		}
		if created {
			fmt.Fprintln(out, ui.Successf("Created %s", path))
		} else {
			fmt.Fprintln(out, ui.Warningf("Config already exists at %s", path))
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		if isJSONOutput() {
			outputSuccess(cmd.OutOrStdout(), map[string]any{"config_path": path}, nil)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save <name> [query | file | -]",
	Short: "Save a query under a name",
	Long: `Save a query in the [queries] table of the config file. Names are
normalized, so "Active Users" is stored and found as "active-users". The
query is checked with the parser before it is saved.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := slugs.QueryName(args[0])
		if name == "" {
			return handleErrorMsg(out, ErrInvalidInput, fmt.Sprintf("invalid query name %q", args[0]), "")
		}

		src, err := resolveSource(cmd, queryFile, args[1:])
		if err != nil {
			return handleSourceError(out, err)
		}
		if len(src.Blocks) != 1 {
			return handleErrorMsg(out, ErrInvalidInput, fmt.Sprintf("%s holds %d queries; save them one at a time", src.Name, len(src.Blocks)), "")
		}

		// Markers are only checked for structure; values are bound when the
		// query runs.
		text := src.Blocks[0]
		if _, err := query.ParseString(strings.ReplaceAll(text, markerOrDefault(queryMarker), "")); err != nil {
			return handleError(out, ErrQueryInvalid, err, "")
		}

		c := getConfig()
		if err := c.SetQuery(name, text); err != nil {
			return handleError(out, ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(resolvedConfigPath, c); err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(out, map[string]any{"name": name, "config_path": resolvedConfigPath}, nil)
			return nil
		}
		fmt.Fprintln(out, ui.Successf("Saved query %s", name))
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c := getConfig()
		if !c.DeleteQuery(args[0]) {
			return handleErrorMsg(out, ErrQueryNotFound, fmt.Sprintf("no saved query named %q", args[0]), "Run 'sgq query --list' to see saved queries")
		}
		if err := config.SaveTo(resolvedConfigPath, c); err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}

		name := slugs.QueryName(args[0])
		if isJSONOutput() {
			outputSuccess(out, map[string]any{"name": name, "config_path": resolvedConfigPath}, nil)
			return nil
		}
		fmt.Fprintln(out, ui.Successf("Removed query %s", name))
		return nil
	},
}

func init() {
	addQueryInputFlags(configSaveCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configRemoveCmd)
	rootCmd.AddCommand(configCmd)
}
