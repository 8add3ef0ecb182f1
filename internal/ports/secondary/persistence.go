// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// ContractRepository defines the secondary port for contract persistence.
type ContractRepository interface {
	// Create persists a new contract.
	Create(ctx context.Context, contract *ContractRecord) error

	// GetByID retrieves a contract by its ID.
	GetByID(ctx context.Context, id string) (*ContractRecord, error)

	// Update writes every mutable field and bumps the version counter.
	Update(ctx context.Context, contract *ContractRecord) error

	// List retrieves contracts matching the given filters.
	List(ctx context.Context, filters ContractFilters) ([]*ContractRecord, error)

	// GetNextID returns the next available contract ID.
	GetNextID(ctx context.Context) (string, error)
}

// ContractRecord represents a contract as stored in persistence.
type ContractRecord struct {
	ID              string
	WorkerID        string
	CustomerID      string
	PlanID          string
	Status          string
	Summary         string   // cached "completed/available"
	CompletionDates []string // cached, ascending YYYY-MM-DD
	Note            string
	Version         int
	CreatedAt       string
	UpdatedAt       string
	CompletedAt     string
}

// ContractFilters contains filter options for querying contracts.
type ContractFilters struct {
	WorkerID string
	Status   string
}

// LessonRepository defines the secondary port for lesson (unit) persistence.
type LessonRepository interface {
	// Create persists a new lesson.
	Create(ctx context.Context, lesson *LessonRecord) error

	// GetByID retrieves a lesson by its ID.
	GetByID(ctx context.Context, id string) (*LessonRecord, error)

	// ListByContract retrieves a contract's lessons ordered by sequence.
	ListByContract(ctx context.Context, contractID string) ([]*LessonRecord, error)

	// Update writes completion, note and availability.
	Update(ctx context.Context, lesson *LessonRecord) error

	// Delete removes a lesson.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available lesson ID.
	GetNextID(ctx context.Context) (string, error)
}

// LessonRecord represents a lesson as stored in persistence.
type LessonRecord struct {
	ID          string
	ContractID  string
	Seq         int
	CompletedOn string // Empty string means not completed
	Note        string
	Available   bool
	UpdatedAt   string
}

// AppointmentRepository defines the secondary port for appointment persistence.
type AppointmentRepository interface {
	// Create persists a new appointment.
	Create(ctx context.Context, appointment *AppointmentRecord) error

	// GetByID retrieves an appointment by its ID.
	GetByID(ctx context.Context, id string) (*AppointmentRecord, error)

	// List retrieves appointments matching the given filters.
	List(ctx context.Context, filters AppointmentFilters) ([]*AppointmentRecord, error)

	// CompareAndSwap moves the appointment to status/claimedBy only if it is
	// still at expectedVersion. Returns false when another writer got there first.
	CompareAndSwap(ctx context.Context, id string, expectedVersion int, status, claimedBy string) (bool, error)

	// GetNextID returns the next available appointment ID.
	GetNextID(ctx context.Context) (string, error)
}

// AppointmentRecord represents an appointment as stored in persistence.
type AppointmentRecord struct {
	ID            string
	CandidateName string
	Specialty     string
	Contact       string
	Status        string
	ClaimedBy     string // Empty string means unclaimed
	CreatedBy     string
	Version       int
	CreatedAt     string
	UpdatedAt     string
}

// AppointmentFilters contains filter options for querying appointments.
type AppointmentFilters struct {
	Status    string
	ClaimedBy string
}

// NotificationRepository defines the secondary port for notification persistence.
type NotificationRepository interface {
	// Exists reports whether a notification exists for the exact tuple.
	Exists(ctx context.Context, key NotificationKey) (bool, error)

	// ExistsForEntity reports whether any notification of type exists for the entity.
	ExistsForEntity(ctx context.Context, entityType, entityID, notificationType string) (bool, error)

	// Insert persists a notification. A duplicate tuple is a no-op and
	// returns false, never an error.
	Insert(ctx context.Context, n *NotificationRecord) (bool, error)

	// Retract deletes notifications by exact (entity, type) match. A non-empty
	// excludeRecipient keeps that recipient's records. Returns rows removed.
	Retract(ctx context.Context, entityType, entityID string, types []string, excludeRecipient string) (int, error)

	// GetByID retrieves a notification by its ID.
	GetByID(ctx context.Context, id string) (*NotificationRecord, error)

	// List retrieves notifications visible under the given filters, newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*NotificationRecord, error)

	// MarkRead flags a notification as read.
	MarkRead(ctx context.Context, id string) error
}

// NotificationKey is the uniqueness tuple of a notification.
type NotificationKey struct {
	EntityType  string
	EntityID    string
	RecipientID string
	Type        string
}

// NotificationRecord represents a notification as stored in persistence.
type NotificationRecord struct {
	ID          string
	Type        string
	EntityType  string
	EntityID    string
	RecipientID string // Empty string means administrator-visible
	Message     string
	Read        bool
	CreatedAt   string
	UpdatedAt   string
}

// Key returns the record's uniqueness tuple.
func (n *NotificationRecord) Key() NotificationKey {
	return NotificationKey{EntityType: n.EntityType, EntityID: n.EntityID, RecipientID: n.RecipientID, Type: n.Type}
}

// NotificationFilters contains filter options for querying notifications.
// RecipientID matches exactly; IncludeAdminVisible adds administrator-visible rows.
type NotificationFilters struct {
	RecipientID         string
	IncludeAdminVisible bool
	EntityID            string
	UnreadOnly          bool
	Limit               int
}

// UserRepository defines the secondary port for the user directory.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// List retrieves users matching the given filters, ordered by ID.
	List(ctx context.Context, filters UserFilters) ([]*UserRecord, error)
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID        string
	Name      string
	Role      string // worker, admin
	Active    bool
	CreatedAt string
}

// UserFilters contains filter options for querying users.
type UserFilters struct {
	Role       string
	ActiveOnly bool
}

// PlanRepository defines the secondary port for the plan catalog.
type PlanRepository interface {
	// Create persists a new plan.
	Create(ctx context.Context, plan *PlanRecord) error

	// GetByID retrieves a plan by its ID.
	GetByID(ctx context.Context, id string) (*PlanRecord, error)

	// List retrieves all plans ordered by ID.
	List(ctx context.Context) ([]*PlanRecord, error)

	// TotalUnits returns the number of lessons the plan defines.
	TotalUnits(ctx context.Context, planID string) (int, error)
}

// PlanRecord represents a plan as stored in persistence.
type PlanRecord struct {
	ID         string
	Name       string
	TotalUnits int
	CreatedAt  string
}
