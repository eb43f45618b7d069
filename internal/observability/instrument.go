// Package observability wires up the process-wide logging for the CLI.
package observability

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Instrument installs the default slog handler from the configured level
// and format names. Logs go to stderr so command output stays pipeable.
func Instrument(levelName, format string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("unsupported log level %q (expected: debug, info, warn, error)", levelName)
	}

	handler, err := newHandler(level, format)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func newHandler(level slog.Level, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(os.Stderr, opts), nil
	case "text":
		return slog.NewTextHandler(os.Stderr, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", format)
	}
}
