package utils

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	// InfoLogger writes info level messages
	InfoLogger *log.Logger
	// WarnLogger writes warning level messages
	WarnLogger *log.Logger
	// ErrorLogger writes error level messages
	ErrorLogger *log.Logger
)

func init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput redirects the loggers. Info and warn go to out, errors to errOut.
// Level prefixes are colored unless color output is disabled (no TTY, NO_COLOR).
func SetOutput(out, errOut io.Writer) {
	InfoLogger = log.New(out, color.GreenString("INFO: "), log.Ldate|log.Ltime)
	WarnLogger = log.New(out, color.YellowString("WARN: "), log.Ldate|log.Ltime)
	ErrorLogger = log.New(errOut, color.RedString("ERROR: "), log.Ldate|log.Ltime)
}

// LogInfo logs an info level message
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

// LogWarn logs a warning level message
func LogWarn(format string, v ...interface{}) {
	WarnLogger.Printf(format, v...)
}

// LogError logs an error level message
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

// TrackTime logs how long the named phase took. Use with defer.
func TrackTime(start time.Time, name string) {
	elapsed := time.Since(start)
	LogInfo("%s finished in %s", name, elapsed)
}
