package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// Setup configures the global logger: warnings only by default, debug
// output with timestamps when debug is set. Loggers made by New afterwards
// inherit the level.
func Setup(debug bool) {
	log.SetOutput(output)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetTimeFormat("15:04:05.000")
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}

// SetOutput redirects every logger created afterwards, and the global one.
func SetOutput(w io.Writer) {
	output = w
	log.SetOutput(w)
}
