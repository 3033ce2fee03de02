// Package cli implements the command-line interface.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/subhero24/sql-graph-query/internal/config"
	"github.com/subhero24/sql-graph-query/internal/store"
	"github.com/subhero24/sql-graph-query/internal/ui"
)

var (
	// Global flags
	configPath   string
	driverFlag   string
	dsnFlag      string
	logLevelFlag string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             log.Logger = log.NewNopLogger()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sgq",
	Short: "sgq - nested graph queries compiled to SQL",
	Long: `sgq compiles nested curly-brace queries into SQL and reassembles the
rows into a tree shaped like the query.

  users WHERE name = ${} {
  	name
  	cars ORDER BY license {
  		license
  		brand {
  			name
  		}
  	}
  }

Relations are resolved through foreign keys, inverse foreign keys, or JSON
documents stored in text columns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config resolution for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version", "init", "path":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(cmd.OutOrStdout(), ErrConfigInvalid, err,
				"Fix the file or point --config at another one")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		levelName := firstNonEmpty(logLevelFlag, cfg.LogLevel, defaultLogLevel)
		logger, err = newLogger(cmd.ErrOrStderr(), levelName)
		if err != nil {
			return handleError(cmd.OutOrStdout(), ErrInvalidInput, err, "")
		}
		level.Debug(logger).Log("msg", "loaded config", "path", resolvedConfigPath, "log_level", levelName)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Database driver: sqlite, postgres or mysql (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Data source name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "db", "", "Alias for --dsn")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Diagnostics on stderr: debug, info, warn, error or none")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	_ = rootCmd.PersistentFlags().MarkHidden("db")
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}

// getConfig returns the loaded config, never nil.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// openDatabase connects using the flags, falling back to the config file.
func openDatabase(ctx context.Context) (*sql.DB, store.Dialect, error) {
	c := getConfig()
	driver := firstNonEmpty(driverFlag, c.Driver)
	dsn := firstNonEmpty(dsnFlag, c.DSN)

	db, dialect, err := store.Open(ctx, driver, dsn)
	if err != nil {
		return nil, store.Dialect{}, err
	}
	level.Debug(logger).Log("msg", "connected", "driver", dialect.Name)
	return db, dialect, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
