// Package log provides a tiny, swappable logging facade: a single
// package-level Logger that defaults to the standard library logger, so
// embedding applications can redirect or silence output without pulling
// in a logging framework.
package log

import (
	"log"
	"os"
)

// StdLogger is the interface this package's default Logger satisfies.
// Applications may install their own implementation (e.g. to route
// through a structured logger) by assigning to Logger.
type StdLogger interface {
	Fatal(args ...interface{})
	Fatalln(args ...interface{})
	Fatalf(format string, args ...interface{})
	Print(args ...interface{})
	Println(args ...interface{})
	Printf(format string, args ...interface{})
}

// Logger receives every line written by this package's helpers. It
// defaults to a standard library logger on stderr and must not be nil.
var Logger StdLogger = log.New(os.Stderr, "", log.LstdFlags)

// Fatalf writes to the logger and terminates the process. Reserved for
// unrecoverable configuration errors.
func Fatalf(format string, args ...interface{}) {
	Logger.Fatalf(format, args...)
}

// Infof writes an informational line.
func Infof(format string, args ...interface{}) {
	Logger.Printf("[INFO] "+format, args...)
}

// Warnf writes a warning line.
func Warnf(format string, args ...interface{}) {
	Logger.Printf("[WARN] "+format, args...)
}
