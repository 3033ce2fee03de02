package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/subhero24/sql-graph-query/internal/atomicfile"
)

type persistedConfig struct {
	Driver   *string              `toml:"driver,omitempty"`
	DSN      *string              `toml:"dsn,omitempty"`
	LogLevel *string              `toml:"log_level,omitempty"`
	AuditLog *string              `toml:"audit_log,omitempty"`
	Queries  map[string]string    `toml:"queries,omitempty"`
	UI       *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the config to a specific path atomically. Comments in an
// existing file are not preserved.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Driver:   nonEmptyPtr(cfg.Driver),
		DSN:      nonEmptyPtr(cfg.DSN),
		LogLevel: nonEmptyPtr(cfg.LogLevel),
		AuditLog: nonEmptyPtr(cfg.AuditLog),
	}
	if len(cfg.Queries) > 0 {
		out.Queries = cfg.Queries
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
