// Package logger centralizes logrus configuration so call sites only pick
// a message level. Verbosity is numeric to stay flag-friendly:
//
//	0=warn, 1=info, 2=debug, 3=trace
package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the global logrus logger. Typically called once during
// application startup, after parsing flags or config.
func Init(verbosity int) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	switch {
	case verbosity <= 0:
		log.SetLevel(log.WarnLevel)
	case verbosity == 1:
		log.SetLevel(log.InfoLevel)
	case verbosity == 2:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.TraceLevel)
	}
}
