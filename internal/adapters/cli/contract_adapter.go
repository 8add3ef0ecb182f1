package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/lessonbook/internal/ports/primary"
)

// ContractAdapter translates CLI operations to ContractService calls.
type ContractAdapter struct {
	service primary.ContractService
	out     io.Writer
	retry   Retry
}

// NewContractAdapter creates a new ContractAdapter with the given service.
func NewContractAdapter(service primary.ContractService, out io.Writer) *ContractAdapter {
	return &ContractAdapter{service: service, out: out, retry: DefaultRetry}
}

// Save creates or updates a contract and prints any regeneration warnings.
func (a *ContractAdapter) Save(ctx context.Context, req primary.SaveContractRequest) error {
	var resp *primary.SaveContractResponse
	err := a.retry.Do(ctx, func() (err error) {
		resp, err = a.service.SaveContract(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	verb := "Created"
	if req.IsUpdate {
		verb = "Updated"
	}
	fmt.Fprintf(a.out, "%s %s contract %s (%s, %s)\n", okMark(), verb, resp.ContractID, resp.Summary, statusLabel(resp.Status))
	for _, w := range resp.Warnings {
		fmt.Fprintf(a.out, "%s %s\n", warnMark(), w)
	}
	if resp.Completed {
		fmt.Fprintf(a.out, "%s Contract %s is now completed\n", okMark(), resp.ContractID)
	}
	return nil
}

// SetStatus applies an administrative status edit.
func (a *ContractAdapter) SetStatus(ctx context.Context, contractID, status string) error {
	var resp *primary.StatusChangeResponse
	err := a.retry.Do(ctx, func() (err error) {
		resp, err = a.service.SetStatus(ctx, contractID, status)
		return err
	})
	if err != nil {
		return err
	}

	if resp.From == resp.To {
		fmt.Fprintf(a.out, "Contract %s is already %s\n", contractID, statusLabel(resp.To))
		return nil
	}
	fmt.Fprintf(a.out, "%s Contract %s: %s -> %s\n", okMark(), contractID, resp.From, statusLabel(resp.To))
	if resp.Notified > 0 {
		fmt.Fprintf(a.out, "  notified %d recipient(s)\n", resp.Notified)
	}
	return nil
}

// Evaluate prints the completion detector's verdict.
func (a *ContractAdapter) Evaluate(ctx context.Context, contractID string) error {
	c, err := a.service.Evaluate(ctx, contractID)
	if err != nil {
		return err
	}

	verdict := "not complete"
	if c.IsComplete {
		verdict = "complete"
	}
	fmt.Fprintf(a.out, "Contract %s: %s\n", c.ContractID, verdict)
	fmt.Fprintf(a.out, "  completed: %d of %d available\n", c.CompletedAvailable, c.TotalAvailable)
	fmt.Fprintf(a.out, "  lessons:   %d (%d excluded)\n", c.TotalUnits, c.Excluded)
	return nil
}

// Show displays a contract with its lessons.
func (a *ContractAdapter) Show(ctx context.Context, contractID string) error {
	c, err := a.service.GetContract(ctx, contractID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Contract: %s\n", c.ID)
	fmt.Fprintf(a.out, "Worker:   %s\n", c.WorkerID)
	fmt.Fprintf(a.out, "Customer: %s\n", c.CustomerID)
	fmt.Fprintf(a.out, "Plan:     %s\n", c.PlanID)
	fmt.Fprintf(a.out, "Status:   %s\n", statusLabel(c.Status))
	fmt.Fprintf(a.out, "Summary:  %s\n", c.Summary)
	if len(c.CompletionDates) > 0 {
		fmt.Fprintf(a.out, "Dates:    %s\n", strings.Join(c.CompletionDates, ", "))
	}
	if c.Note != "" {
		fmt.Fprintf(a.out, "Note:     %s\n", c.Note)
	}
	if c.CompletedAt != "" {
		fmt.Fprintf(a.out, "Completed: %s\n", c.CompletedAt)
	}

	section(a.out, fmt.Sprintf("%-4s %-10s %-12s %-9s %s", "SEQ", "ID", "COMPLETED", "AVAILABLE", "NOTE"))
	for _, l := range c.Lessons {
		available := "yes"
		if !l.Available {
			available = "no"
		}
		fmt.Fprintf(a.out, "%-4d %-10s %-12s %-9s %s\n", l.Seq, l.ID, orDash(l.CompletedOn), available, l.Note)
	}
	return nil
}

// List lists contracts.
func (a *ContractAdapter) List(ctx context.Context, filters primary.ContractFilters) error {
	contracts, err := a.service.ListContracts(ctx, filters)
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		fmt.Fprintln(a.out, "No contracts found")
		return nil
	}

	section(a.out, fmt.Sprintf("%-10s %-10s %-10s %-10s %s", "ID", "WORKER", "PLAN", "SUMMARY", "STATUS"))
	for _, c := range contracts {
		fmt.Fprintf(a.out, "%-10s %-10s %-10s %-10s %s\n", c.ID, c.WorkerID, c.PlanID, c.Summary, statusLabel(c.Status))
	}
	return nil
}
