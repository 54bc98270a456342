// Package log provides logging utilities including colored console output,
// an optional plain-text file sink and connection traffic recording.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var yellow = color.New(color.FgYellow).FprintfFunc()
var cyan = color.New(color.FgCyan).FprintfFunc()

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// Logger writes colored messages to stderr and, if a file sink is attached,
// an uncolored timestamped copy of every message to that sink.
// A nil *Logger is valid and discards all messages.
type Logger struct {
	verbose bool

	mu   sync.Mutex
	sink io.Writer
}

// NewLogger creates a logger. Verbose messages are only printed if verbose is true.
func NewLogger(verbose bool) *Logger {
	return &Logger{verbose: verbose}
}

// SetSink attaches w as file sink. Passing nil detaches the current sink.
func (l *Logger) SetSink(w io.Writer) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = w
}

// IsVerbose reports whether verbose messages are printed.
func (l *Logger) IsVerbose() bool {
	return l != nil && l.verbose
}

// InfoMsg prints an informational message in blue.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	blue(os.Stderr, "[+] "+format, a...)
	l.toSink("INFO", format, a...)
}

// WarnMsg prints a warning in yellow.
func (l *Logger) WarnMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	yellow(os.Stderr, "[~] "+format, a...)
	l.toSink("WARN", format, a...)
}

// ErrorMsg prints an error message in red.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	red(os.Stderr, "[!] Error: "+format, a...)
	l.toSink("ERROR", format, a...)
}

// VerboseMsg prints a debug message in cyan if the logger is verbose.
// The file sink receives verbose messages regardless.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	if l.verbose {
		cyan(os.Stderr, "[v] "+format+"\n", a...)
	}
	l.toSink("DEBUG", format, a...)
}

func (l *Logger) toSink(level, format string, a ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink == nil {
		return
	}

	msg := strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	fmt.Fprintf(l.sink, "%s %-5s %s\n", time.Now().Format(time.RFC3339), level, msg)
}
