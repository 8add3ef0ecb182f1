package app

import (
	"context"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/core/notification"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	notifications secondary.NotificationRepository
	identity      secondary.IdentityProvider
}

// NewNotificationService creates a new NotificationService with injected dependencies.
func NewNotificationService(notifications secondary.NotificationRepository, identity secondary.IdentityProvider) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notifications: notifications,
		identity:      identity,
	}
}

// ListNotifications lists notifications addressed to the current actor, plus
// administrator-visible ones for administrators.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.notifications.List(ctx, secondary.NotificationFilters{
		RecipientID:         actor.ID,
		IncludeAdminVisible: actor.IsAdmin(),
		EntityID:            filters.EntityID,
		UnreadOnly:          filters.UnreadOnly,
		Limit:               filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*primary.Notification, len(records))
	for i, r := range records {
		out[i] = &primary.Notification{
			ID:          r.ID,
			Type:        r.Type,
			EntityType:  r.EntityType,
			EntityID:    r.EntityID,
			RecipientID: r.RecipientID,
			Message:     r.Message,
			Read:        r.Read,
			CreatedAt:   r.CreatedAt,
		}
	}
	return out, nil
}

// MarkRead flags a notification as read. Notifications the actor cannot see
// are reported as not found.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, notificationID string) error {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return err
	}

	record, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	visible := record.RecipientID == actor.ID ||
		(record.RecipientID == notification.AdminVisible && actor.IsAdmin())
	if !visible {
		return fault.NotFound("notification", notificationID)
	}
	return s.notifications.MarkRead(ctx, notificationID)
}

var _ primary.NotificationService = (*NotificationServiceImpl)(nil)
