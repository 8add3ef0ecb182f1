package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/lessonbook/internal/core/effects"
	"github.com/example/lessonbook/internal/core/notification"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// Notifier fans out and retracts notification records inside a unit of work.
type Notifier interface {
	// Dispatch resolves recipients for the event and inserts one record per
	// recipient. Existing records are skipped; returns the number inserted.
	Dispatch(ctx context.Context, repos secondary.Repositories, eff effects.NotifyEffect) (int, error)

	// Retract deletes records superseded by a transition; returns the number removed.
	Retract(ctx context.Context, repos secondary.Repositories, eff effects.RetractEffect) (int, error)
}

// NotificationCoordinator implements Notifier over the notification repository.
type NotificationCoordinator struct {
	now func() time.Time
}

// NewNotificationCoordinator creates a new NotificationCoordinator.
func NewNotificationCoordinator() *NotificationCoordinator {
	return &NotificationCoordinator{now: time.Now}
}

// Dispatch resolves recipients from the routing table and inserts their records.
func (c *NotificationCoordinator) Dispatch(ctx context.Context, repos secondary.Repositories, eff effects.NotifyEffect) (int, error) {
	t, err := notification.ParseType(eff.Event)
	if err != nil {
		return 0, err
	}

	admins, err := activeUserIDs(ctx, repos.Users, "admin")
	if err != nil {
		return 0, err
	}
	workers, err := activeUserIDs(ctx, repos.Users, "worker")
	if err != nil {
		return 0, err
	}

	recipients, err := notification.Recipients(t, notification.RoutingInput{
		ActorID:      eff.ActorID,
		ActorIsAdmin: eff.ActorIsAdmin,
		SubjectID:    eff.SubjectID,
		Admins:       admins,
		Workers:      workers,
	})
	if err != nil {
		return 0, err
	}

	message := notification.Message(t, eff.EntityID, eff.Fields)
	stamp := c.now().UTC().Format(time.RFC3339Nano)

	emitted := 0
	for _, recipient := range recipients {
		inserted, err := repos.Notifications.Insert(ctx, &secondary.NotificationRecord{
			Type:        string(t),
			EntityType:  eff.EntityType,
			EntityID:    eff.EntityID,
			RecipientID: recipient,
			Message:     message,
			CreatedAt:   stamp,
			UpdatedAt:   stamp,
		})
		if err != nil {
			return emitted, fmt.Errorf("failed to notify %q: %w", recipient, err)
		}
		if inserted {
			emitted++
		}
	}
	return emitted, nil
}

// Retract deletes superseded records by exact (entity, type) match.
func (c *NotificationCoordinator) Retract(ctx context.Context, repos secondary.Repositories, eff effects.RetractEffect) (int, error) {
	return repos.Notifications.Retract(ctx, eff.EntityType, eff.EntityID, eff.Types, eff.ExcludeRecipient)
}

func activeUserIDs(ctx context.Context, users secondary.UserRepository, role string) ([]string, error) {
	records, err := users.List(ctx, secondary.UserFilters{Role: role, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}

var _ Notifier = (*NotificationCoordinator)(nil)
