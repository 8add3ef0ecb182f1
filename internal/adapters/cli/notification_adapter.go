package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/lessonbook/internal/ports/primary"
)

// NotificationAdapter translates CLI operations to NotificationService and
// OperationLogService calls.
type NotificationAdapter struct {
	service primary.NotificationService
	oplog   primary.OperationLogService
	out     io.Writer
}

// NewNotificationAdapter creates a new NotificationAdapter.
func NewNotificationAdapter(service primary.NotificationService, oplog primary.OperationLogService, out io.Writer) *NotificationAdapter {
	return &NotificationAdapter{service: service, oplog: oplog, out: out}
}

// List lists the current actor's notifications.
func (a *NotificationAdapter) List(ctx context.Context, filters primary.NotificationFilters) error {
	notes, err := a.service.ListNotifications(ctx, filters)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}

	for _, n := range notes {
		mark := "•"
		if n.Read {
			mark = " "
		}
		fmt.Fprintf(a.out, "%s %s [%s] %s\n", mark, n.ID, n.Type, n.Message)
	}
	return nil
}

// MarkRead flags a notification as read.
func (a *NotificationAdapter) MarkRead(ctx context.Context, notificationID string) error {
	if err := a.service.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Marked %s as read\n", okMark(), notificationID)
	return nil
}

// Operations prints an entity's operation log.
func (a *NotificationAdapter) Operations(ctx context.Context, entityID string) error {
	entries, err := a.oplog.ListOperations(ctx, entityID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No operations recorded for %s\n", entityID)
		return nil
	}

	section(a.out, fmt.Sprintf("%-4s %-26s %-8s %-10s %s", "SEQ", "OPERATION", "OUTCOME", "ACTOR", "ERROR"))
	for _, e := range entries {
		outcome := e.Outcome
		if e.Outcome == "failed" {
			outcome = failMark() + " " + outcome
		}
		fmt.Fprintf(a.out, "%-4d %-26s %-8s %-10s %s\n", e.Seq, e.Operation, outcome, orDash(e.ActorID), e.Error)
	}
	return nil
}
