// Package testutil holds shared helpers for package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"photoframe-entrypoint/internal/logging"
)

// LoggingContext returns a context with a logger writing into the returned
// builder, so tests can assert on emitted log lines.
func LoggingContext(t *testing.T) (context.Context, *strings.Builder) {
	t.Helper()
	var buf strings.Builder
	ctx := logging.New(context.Background(), logging.Config{
		Writer: &buf,
		Level:  zerolog.DebugLevel,
	})
	return ctx, &buf
}

// VerifyNoLeaks verifies that no goroutines are leaked during test
// execution. Call it deferred in tests that open databases or spawn
// subprocesses.
func VerifyNoLeaks(t *testing.T) {
	t.Helper()
	goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("testing.tRunner.func1"),
		goleak.IgnoreTopFunction("testing.runTests"),
		goleak.IgnoreTopFunction("testing.(*M).Run"),
	)
}
