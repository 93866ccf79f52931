// Package logger builds charmbracelet/log loggers that write to stderr, which
// keeps stdout free for results and the msgpack stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var output io.Writer = os.Stderr

// New creates a component logger that follows the global level.
func New(prefix string) *log.Logger {
	level := log.GetLevel()
	return log.NewWithOptions(output, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: level <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}
