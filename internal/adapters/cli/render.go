// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting and retries,
// but delegate business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/lessonbook/internal/core/fault"
)

const rule = "────────────────────────────────────────────────────────────────"

func okMark() string   { return color.New(color.FgGreen).Sprint("✓") }
func warnMark() string { return color.New(color.FgYellow).Sprint("!") }
func failMark() string { return color.New(color.FgRed).Sprint("✗") }

// statusLabel colours a contract or appointment status.
func statusLabel(status string) string {
	switch status {
	case "completed", "accepted":
		return color.New(color.FgGreen).Sprint(status)
	case "cancelled":
		return color.New(color.FgRed).Sprint(status)
	case "assigned":
		return color.New(color.FgYellow).Sprint(status)
	case "open":
		return color.New(color.FgCyan).Sprint(status)
	}
	return status
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n%s\n", title, rule)
}

// Retry bounds CLI retries of Busy results.
type Retry struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetry retries a busy entity three times with doubling backoff.
var DefaultRetry = Retry{Attempts: 3, Backoff: 100 * time.Millisecond}

// Do runs fn, retrying while it fails with fault.ErrBusy.
func (r Retry) Do(ctx context.Context, fn func() error) error {
	backoff := r.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if !errors.Is(err, fault.ErrBusy) || attempt >= r.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
