package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/lessonbook/internal/ports/primary"
)

// LessonAdapter translates CLI operations to LessonService calls.
type LessonAdapter struct {
	service primary.LessonService
	out     io.Writer
	retry   Retry
}

// NewLessonAdapter creates a new LessonAdapter with the given service.
func NewLessonAdapter(service primary.LessonService, out io.Writer) *LessonAdapter {
	return &LessonAdapter{service: service, out: out, retry: DefaultRetry}
}

// Record applies a single lesson outcome.
func (a *LessonAdapter) Record(ctx context.Context, outcome primary.LessonOutcome) error {
	var resp *primary.RecordOutcomeResponse
	err := a.retry.Do(ctx, func() (err error) {
		resp, err = a.service.RecordOutcome(ctx, outcome)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Recorded %s on %s (%s)\n", okMark(), resp.LessonID, resp.ContractID, resp.Summary)
	if resp.Completed {
		fmt.Fprintf(a.out, "%s Contract %s is now completed\n", okMark(), resp.ContractID)
	}
	return nil
}

// Bulk applies a batch and prints per-item failures and per-contract summaries.
// It returns an error when any item failed.
func (a *LessonAdapter) Bulk(ctx context.Context, outcomes []primary.LessonOutcome) error {
	resp, err := a.service.BulkUpdate(ctx, outcomes)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Applied %d of %d outcome(s)\n", resp.SuccessCount, len(outcomes))
	for _, c := range resp.Contracts {
		line := fmt.Sprintf("%s %s %s %s", okMark(), c.ContractID, c.Summary, statusLabel(c.Status))
		if c.Completed {
			line += " (completed now)"
		}
		fmt.Fprintln(a.out, line)
	}
	for _, e := range resp.Errors {
		fmt.Fprintf(a.out, "%s #%d %s: %s\n", failMark(), e.Index+1, orDash(e.LessonID), e.Error)
	}

	if resp.ErrorCount > 0 {
		return fmt.Errorf("%d of %d outcome(s) failed", resp.ErrorCount, len(outcomes))
	}
	return nil
}
