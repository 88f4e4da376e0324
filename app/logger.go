package app

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger builds an isolated logger; the global charm logger is left alone.
// Unknown levels fall back to info.
func newLogger(w io.Writer, level, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           lvl,
		ReportTimestamp: true,
	})
}
