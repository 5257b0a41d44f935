// Package logger provides leveled, structured logging on top of the
// standard log package, with optional Sentry reporting.
package logger

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

// Fields represents structured log fields
type Fields map[string]interface{}

var debug atomic.Bool

// SetDebug enables Debug output
func SetDebug(on bool) { debug.Store(on) }

// SetOutput redirects all log output
func SetOutput(w io.Writer) { log.SetOutput(w) }

// Discard drops all log output, used while the terminal UI owns the screen
func Discard() { log.SetOutput(io.Discard) }

// InitSentry enables error reporting when dsn is set. The returned
// function flushes buffered events and should be deferred by main.
func InitSentry(dsn, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Debug logs only when debug output is enabled
func Debug(msg string, fields Fields) {
	if !debug.Load() {
		return
	}
	log.Printf("[DEBUG] %s %s", msg, formatFields(fields))
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %s", msg, formatFields(fields))
	breadcrumb(msg, fields, sentry.LevelInfo)
}

// Warn logs a recoverable problem
func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %s", msg, formatFields(fields))
	breadcrumb(msg, fields, sentry.LevelWarning)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			scope.SetTag("message", msg)
			hub.CaptureException(err)
		})
	}
}

func breadcrumb(msg string, fields Fields, level sentry.Level) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "log",
			Message:  msg,
			Data:     fields,
			Level:    level,
		}, nil)
	}
}

func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
