// Package logging is jarcheck's leveled logger. Debug, info and warning
// messages are printed only in verbose mode; errors are always printed.
package logging

import (
	"io"
	"log"
	"os"
)

var (
	// Logger is the shared logger. It writes to stderr by default.
	Logger *log.Logger

	// Verbose controls whether debug, info and warning messages are printed.
	Verbose bool
)

func init() {
	Logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)

	// --verbose overrides this through SetVerbose
	Verbose = os.Getenv("JARCHECK_VERBOSE") == "1"
}

// SetVerbose enables or disables verbose logging at runtime.
func SetVerbose(enabled bool) {
	Verbose = enabled
}

// SetOutput redirects logger output.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func Debugf(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[INFO] "+format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[WARN] "+format, args...)
	}
}

// Errorf prints regardless of verbose mode.
func Errorf(format string, args ...interface{}) {
	Logger.Printf("[ERROR] "+format, args...)
}

// Component is a logger that tags every line with "[name] ".
type Component string

func (c Component) Debugf(format string, args ...interface{}) {
	Debugf("["+string(c)+"] "+format, args...)
}

func (c Component) Infof(format string, args ...interface{}) {
	Infof("["+string(c)+"] "+format, args...)
}

func (c Component) Warnf(format string, args ...interface{}) {
	Warnf("["+string(c)+"] "+format, args...)
}

func (c Component) Errorf(format string, args ...interface{}) {
	Errorf("["+string(c)+"] "+format, args...)
}
