// Package logger builds the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// New returns a JSON or text logger at level writing to w, plus an optional
// append-only file sink. The returned closer releases the file.
func New(w io.Writer, level, format, file string) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	primary, err := handler(w, format, opts)
	if err != nil {
		return nil, nil, err
	}
	if file == "" {
		return slog.New(primary).With(slog.String("service", "tonetags")), nopCloser{}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	// The file sink always gets JSON so it stays machine readable.
	fileHandler := slog.NewJSONHandler(f, opts)
	logger := slog.New(slogmulti.Fanout(primary, fileHandler)).With(slog.String("service", "tonetags"))
	return logger, f, nil
}

// ParseLevel accepts debug, info, warn and error, case-insensitively. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(level) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func handler(w io.Writer, format string, opts *slog.HandlerOptions) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
