package logger

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	gray    = color.New(color.FgHiBlack)
	blue    = color.New(color.FgBlue)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	red     = color.New(color.FgRed)
	cyan    = color.New(color.FgCyan)
	magenta = color.New(color.FgMagenta)
	white   = color.New(color.FgWhite)
)

func stamp() string {
	return gray.Sprintf("[%s]", time.Now().Format("15:04:05"))
}

// Info logs general information (blue).
func Info(message string, args ...interface{}) {
	fmt.Println(stamp(), blue.Sprintf(message, args...))
}

// Success logs a completed step (green).
func Success(message string, args ...interface{}) {
	fmt.Println(stamp(), green.Sprintf("✓ "+message, args...))
}

// Warning logs a degraded but recoverable condition (yellow).
func Warning(message string, args ...interface{}) {
	fmt.Println(stamp(), yellow.Sprintf("⚠ "+message, args...))
}

// Error logs a failure (red).
func Error(message string, args ...interface{}) {
	fmt.Println(stamp(), red.Sprintf("✗ "+message, args...))
}

func Debug(message string, args ...interface{}) {
	fmt.Println(stamp(), gray.Sprintf("DEBUG: "+message, args...))
}

// Request logs one HTTP request with its status and duration.
func Request(method, path string, statusCode int, duration time.Duration) {
	c := red
	switch {
	case statusCode >= 200 && statusCode < 300:
		c = green
	case statusCode >= 300 && statusCode < 400:
		c = cyan
	case statusCode >= 400 && statusCode < 500:
		c = yellow
	}

	fmt.Println(stamp(),
		magenta.Sprintf("%-6s", method),
		white.Sprintf("%-50s", path),
		c.Sprintf("[%d]", statusCode),
		gray.Sprintf("(%s)", formatDuration(duration)),
	)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
