package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// Guard is the per-entity Concurrency Guard. Every state-changing operation runs
// through Run: one "started" audit row, a non-blocking lock on the entity, the
// operation's unit of work, then exactly one "success" or "failed" row.
type Guard struct {
	locks    secondary.LockManager
	uow      secondary.UnitOfWork
	oplog    secondary.OperationLogRepository
	observer UseCaseObserver
	lockWait time.Duration
	now      func() time.Time
}

// NewGuard creates a Guard. lockWait bounds how long Run polls a held lock;
// zero fails fast with fault.ErrBusy.
func NewGuard(
	locks secondary.LockManager,
	uow secondary.UnitOfWork,
	oplog secondary.OperationLogRepository,
	observer UseCaseObserver,
	lockWait time.Duration,
) *Guard {
	if observer == nil {
		observer = NoopUseCaseObserver{}
	}
	return &Guard{
		locks:    locks,
		uow:      uow,
		oplog:    oplog,
		observer: observer,
		lockWait: lockWait,
		now:      time.Now,
	}
}

// Run executes fn for entityID under the entity lock and inside one unit of work.
func (g *Guard) Run(ctx context.Context, entityID, operation string, fn func(ctx context.Context, repos secondary.Repositories) error) error {
	started := g.now()

	if err := g.append(ctx, entityID, operation, secondary.OutcomeStarted, nil); err != nil {
		return err
	}

	err := g.runLocked(ctx, entityID, operation, fn)

	outcome := secondary.OutcomeSuccess
	if err != nil {
		outcome = secondary.OutcomeFailed
	}
	if logErr := g.append(ctx, entityID, operation, outcome, err); logErr != nil && err == nil {
		err = logErr
	}

	g.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      operation,
		EntityID:  entityID,
		Duration:  g.now().Sub(started),
		Success:   err == nil,
		Err:       err,
		StartedAt: started,
	})
	return err
}

// createWait is the minimum time Create waits for a concurrent create of the same kind.
const createWait = 5 * time.Second

// Create mints an id with nextID and runs fn for it through Run. A per-kind
// lock is held across both steps, so concurrent creates never read the same
// next id.
func (g *Guard) Create(
	ctx context.Context,
	kind, operation string,
	nextID func(ctx context.Context) (string, error),
	fn func(ctx context.Context, id string, repos secondary.Repositories) error,
) (string, error) {
	release, err := g.acquire(ctx, "new:"+kind, max(g.lockWait, createWait))
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	defer release()

	id, err := nextID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s ID: %w", kind, err)
	}
	return id, g.Run(ctx, id, operation, func(ctx context.Context, repos secondary.Repositories) error {
		return fn(ctx, id, repos)
	})
}

func (g *Guard) runLocked(ctx context.Context, entityID, operation string, fn func(ctx context.Context, repos secondary.Repositories) error) error {
	release, err := g.acquire(ctx, entityID, g.lockWait)
	if err != nil {
		return fmt.Errorf("%s %s: %w", operation, entityID, err)
	}

	failures := &dispatchFailures{}
	err = g.uow.Atomic(withDispatchFailures(ctx, failures), fn)
	release()

	// Audit rows are written only after the transaction has ended, since the
	// log shares the single database connection.
	for _, f := range failures.items {
		if logErr := g.append(ctx, entityID, f.operation, secondary.OutcomeFailed, f.err); logErr != nil {
			slog.WarnContext(ctx, "failed to record dispatch failure", "entity_id", entityID, "error", logErr)
		}
	}
	return err
}

// acquire polls a held lock with doubling backoff until wait elapses.
func (g *Guard) acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	deadline := g.now().Add(wait)
	backoff := 5 * time.Millisecond
	for {
		release, err := g.locks.TryAcquire(key)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, fault.ErrBusy) {
			return nil, err
		}
		if wait <= 0 || !g.now().Add(backoff).Before(deadline) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", fault.ErrBusy, ctx.Err())
		case <-time.After(backoff):
		}
		if backoff < 100*time.Millisecond {
			backoff *= 2
		}
	}
}

func (g *Guard) append(ctx context.Context, entityID, operation, outcome string, opErr error) error {
	entry := &secondary.OperationLogRecord{
		EntityID:  entityID,
		Operation: operation,
		Outcome:   outcome,
		CreatedAt: g.now().UTC().Format(time.RFC3339Nano),
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	if err := g.oplog.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to write operation log: %w", err)
	}
	return nil
}

type dispatchFailure struct {
	operation string
	err       error
}

// dispatchFailures collects notification failures swallowed inside a unit of
// work so the Guard can audit them once the transaction has ended.
type dispatchFailures struct {
	items []dispatchFailure
}

type dispatchFailuresKey struct{}

func withDispatchFailures(ctx context.Context, f *dispatchFailures) context.Context {
	return context.WithValue(ctx, dispatchFailuresKey{}, f)
}

// recordDispatchFailure queues a failed notification for the operation log.
// Outside a guarded operation it is only logged.
func recordDispatchFailure(ctx context.Context, operation string, err error) {
	err = fmt.Errorf("%w: %v", fault.ErrNotificationDispatch, err)
	if f, ok := ctx.Value(dispatchFailuresKey{}).(*dispatchFailures); ok {
		f.items = append(f.items, dispatchFailure{operation: operation, err: err})
	}
	slog.WarnContext(ctx, "notification dispatch failed", "operation", operation, "error", err)
}
