package secondary

import "context"

// Repositories is the set of repositories bound to one unit of work.
type Repositories struct {
	Contracts     ContractRepository
	Lessons       LessonRepository
	Appointments  AppointmentRepository
	Notifications NotificationRepository
	Users         UserRepository
	Plans         PlanRepository

	// Scope runs nested savepoints; nil runs fn directly.
	Scope SavepointRunner
}

// Savepoint runs fn inside a nested savepoint of the current unit of work.
// If fn fails, only its writes are rolled back and the error is returned.
func (r Repositories) Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if r.Scope == nil {
		return fn(ctx)
	}
	return r.Scope.Savepoint(ctx, name, fn)
}

// SavepointRunner opens nested savepoints inside a transaction.
type SavepointRunner interface {
	Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// UnitOfWork runs a function atomically against transaction-scoped repositories.
type UnitOfWork interface {
	// Atomic commits if fn returns nil and rolls back otherwise.
	Atomic(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// LockManager provides non-blocking per-entity mutual exclusion.
type LockManager interface {
	// TryAcquire takes the lock for key or fails immediately with fault.ErrBusy.
	// The returned release func is safe to call more than once.
	TryAcquire(key string) (release func(), err error)
}

// Actor is the identity performing an operation.
type Actor struct {
	ID   string
	Role string // worker, admin
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// IsWorker reports whether the actor is a worker.
func (a Actor) IsWorker() bool { return a.Role == "worker" }

// IdentityProvider resolves the current actor.
type IdentityProvider interface {
	// CurrentActor returns the actor for ctx, resolved against the user directory.
	CurrentActor(ctx context.Context) (*Actor, error)
}
