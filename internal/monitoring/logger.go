// Package monitoring holds the diagnostic logger used by the command-line
// tools. The bilinear library itself never logs.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or callers can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Timed logs how long a phase took once the returned func is called:
//
//	defer monitoring.Timed("populating grid")()
func Timed(phase string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		Logf("%s: %v", phase, d)
		return d
	}
}
