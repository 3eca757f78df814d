// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options control logger construction. Zero values mean info level, text format and stderr.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a logger configured from opts.
func New(opts Options) (*log.Logger, error) {
	logger := log.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: out != os.Stderr})
	case FormatJSON:
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: must be %s or %s", opts.Format, FormatText, FormatJSON)
	}
	return logger, nil
}
