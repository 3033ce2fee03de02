package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const defaultLogLevel = "warn"

// newLogger returns a logfmt logger on w filtered to the named level.
func newLogger(w io.Writer, name string) (log.Logger, error) {
	var allow level.Option
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "", "warn", "warning":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	case "none", "off":
		allow = level.AllowNone()
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug, info, warn, error or none)", name)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, allow), nil
}
