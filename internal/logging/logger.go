// Package logging builds the structured logger shared by the server and the
// extraction pipeline.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New creates a text-format logger writing to out at the named level
// ("debug", "info", "warn", "error"). Unknown or empty levels fall back to
// info.
//
// The MCP protocol owns stdout, so callers normally pass os.Stderr.
func New(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil || level == "" {
		return logrus.InfoLevel
	}
	return lvl
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Logger {
	return New("error", io.Discard)
}
