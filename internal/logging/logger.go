// Package logging provides colored, leveled log output for the scenario-sim
// CLI.
//
// Every line goes to a single writer, stderr by default, so stdout stays
// clean for json and yaml results. Debug output is suppressed unless verbose
// mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	sectionPrefix = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// SetOutput redirects all log lines to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func emit(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, prefix+" "+msg)
}

// Info logs an informational message in blue.
func Info(msg string) {
	emit(infoPrefix("[INFO]"), msg)
}

// Success logs a success message in green.
func Success(msg string) {
	emit(successPrefix("[SUCCESS]"), msg)
}

// Warn logs a warning in yellow.
func Warn(msg string) {
	emit(warnPrefix("[WARN]"), msg)
}

// Error logs an error in red.
func Error(msg string) {
	emit(errorPrefix("[ERROR]"), msg)
}

// Section logs a cyan header surrounded by separator lines.
func Section(msg string) {
	sep := sectionPrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, sectionPrefix("[STEP]")+" "+msg)
	fmt.Fprintln(out, sep)
}

// Debug logs a message only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	emit(debugPrefix("[DEBUG]"), msg)
}

// FormatElapsed renders a request duration for log lines.
//
// Examples:
//
//	FormatElapsed(850*time.Millisecond) => "850ms"
//	FormatElapsed(1300*time.Millisecond) => "1.3s"
//	FormatElapsed(90*time.Second)       => "1m 30s"
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
