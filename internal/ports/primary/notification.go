package primary

import "context"

// NotificationService defines the read surface for notifications.
// Callers only ever see records addressed to them, plus administrator-visible
// records when they are administrators.
type NotificationService interface {
	// ListNotifications lists notifications visible to the current actor.
	ListNotifications(ctx context.Context, filters NotificationFilters) ([]*Notification, error)

	// MarkRead flags a visible notification as read.
	MarkRead(ctx context.Context, notificationID string) error
}

// Notification represents a notification at the port boundary.
type Notification struct {
	ID          string
	Type        string
	EntityType  string
	EntityID    string
	RecipientID string
	Message     string
	Read        bool
	CreatedAt   string
}

// NotificationFilters contains filter options for listing notifications.
type NotificationFilters struct {
	EntityID   string
	UnreadOnly bool
	Limit      int
}
