package cli

import (
	"log"
)

// Status lines use plain log.Printf, the same convention inmaputil's
// command package uses throughout (cmd.go, grid.go, inmap.go). Fatal and
// warning conditions additionally carry the FATAL:/WARNING: line prefixes
// spec.md section 7 requires so a caller can grep the simulator's stderr
// without parsing structured output.
func logInfo(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func logWarning(format string, args ...interface{}) {
	log.Printf("WARNING: "+format, args...)
}

func logFatal(err error) {
	log.Printf("FATAL: %v", err)
}
