// Package config handles sgq configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/subhero24/sql-graph-query/internal/atomicfile"
	"github.com/subhero24/sql-graph-query/internal/slugs"
)

// Config represents the sgq configuration file.
type Config struct {
	// Driver selects the database dialect: sqlite, postgres or mysql.
	Driver string `toml:"driver"`

	// DSN is the driver-specific data source name.
	DSN string `toml:"dsn"`

	// LogLevel filters diagnostics written to stderr: debug, info, warn,
	// error or none.
	LogLevel string `toml:"log_level"`

	// AuditLog is a JSON lines file receiving every executed mutation.
	// Relative paths resolve against the config file's directory. Empty
	// disables auditing.
	AuditLog string `toml:"audit_log"`

	// Queries maps saved query names to query text. Names are looked up
	// after slug normalization.
	Queries map[string]string `toml:"queries"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0" to "255") or hex color ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Chroma theme used for SQL in rendered markdown.
	CodeTheme string `toml:"code_theme"`
}

// Load loads the configuration from the default location.
// Returns an empty config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/sgq/config.toml first, then the OS config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "sgq", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sgq", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// ResolveConfigPath returns the explicit path when one is given, otherwise
// the default path.
func ResolveConfigPath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	return DefaultPath()
}

const defaultConfig = `# sgq configuration

# Database dialect: sqlite, postgres or mysql
driver = "sqlite"

# Data source name passed to the driver
# dsn = "garage.db"
# dsn = "postgres://localhost/garage?sslmode=disable"
# dsn = "user:pass@tcp(localhost:3306)/garage"

# Diagnostics on stderr: debug, info, warn, error or none
# log_level = "warn"

# Append every executed mutation to a JSON lines file
# audit_log = "audit.log"

# Saved queries, run with 'sgq query <name>'
# [queries]
# users-with-cars = """
# users {
# 	name
# 	cars {
# 		license
# 	}
# }
# """

# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault writes the default config file to path unless a file
// already exists there. It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := atomicfile.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// SavedQuery returns the saved query registered under name. Names match
// after normalization, so "Active Users" finds "active-users".
func (c *Config) SavedQuery(name string) (string, bool) {
	want := slugs.QueryName(name)
	if want == "" {
		return "", false
	}
	for key, text := range c.Queries {
		if slugs.QueryName(key) == want {
			return text, true
		}
	}
	return "", false
}

// QueryNames returns the normalized names of all saved queries, sorted.
func (c *Config) QueryNames() []string {
	names := make([]string, 0, len(c.Queries))
	for key := range c.Queries {
		if name := slugs.QueryName(key); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SetQuery stores text under the normalized form of name, replacing any
// entry that normalizes to the same name.
func (c *Config) SetQuery(name, text string) error {
	norm := slugs.QueryName(name)
	if norm == "" {
		return fmt.Errorf("invalid query name %q", name)
	}
	if c.Queries == nil {
		c.Queries = make(map[string]string)
	}
	for key := range c.Queries {
		if slugs.QueryName(key) == norm {
			delete(c.Queries, key)
		}
	}
	c.Queries[norm] = text
	return nil
}

// DeleteQuery removes the saved query matching name and reports whether one
// was found.
func (c *Config) DeleteQuery(name string) bool {
	norm := slugs.QueryName(name)
	found := false
	for key := range c.Queries {
		if slugs.QueryName(key) == norm {
			delete(c.Queries, key)
			found = true
		}
	}
	return found
}
