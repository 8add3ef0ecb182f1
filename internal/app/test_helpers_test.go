package app

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/lessonbook/internal/adapters/lock"
	"github.com/example/lessonbook/internal/adapters/persistence"
	"github.com/example/lessonbook/internal/adapters/sqlite"
	"github.com/example/lessonbook/internal/core/effects"
	"github.com/example/lessonbook/internal/ctxutil"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

const (
	adminID   = "USR-ADMIN"
	workerA   = "USR-001"
	workerB   = "USR-002"
	workerC   = "USR-003"
	planTen   = "PLAN-10"
	planEight = "PLAN-8"
)

// testEnv wires the real services over an in-memory database.
type testEnv struct {
	db            *sql.DB
	locks         *lock.Manager
	base          secondary.Repositories
	oplog         *sqlite.OperationLogWriter
	contracts     *ContractServiceImpl
	lessons       *LessonServiceImpl
	appointments  *AppointmentServiceImpl
	notifications *NotificationServiceImpl
}

type envOption func(*envConfig)

type envConfig struct {
	notifier Notifier
	lockWait time.Duration
}

func withNotifier(n Notifier) envOption {
	return func(c *envConfig) { c.notifier = n }
}

func withLockWait(d time.Duration) envOption {
	return func(c *envConfig) { c.lockWait = d }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{notifier: NewNotificationCoordinator()}
	for _, o := range opts {
		o(&cfg)
	}

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	for _, u := range []struct{ id, role string }{
		{adminID, "admin"}, {workerA, "worker"}, {workerB, "worker"}, {workerC, "worker"},
	} {
		_, err := database.Exec("INSERT INTO users (id, name, role, active, created_at) VALUES (?, ?, ?, 1, '2026-01-01T00:00:00Z')",
			u.id, "User "+u.id, u.role)
		require.NoError(t, err)
	}
	for _, p := range []struct {
		id    string
		total int
	}{{planTen, 10}, {planEight, 8}} {
		_, err := database.Exec("INSERT INTO plans (id, name, total_units, created_at) VALUES (?, ?, ?, '2026-01-01T00:00:00Z')",
			p.id, p.id, p.total)
		require.NoError(t, err)
	}

	base := sqlite.NewRepositories(database, nil)
	oplog := sqlite.NewOperationLogWriter(database)
	locks := lock.NewManager()
	guard := NewGuard(locks, sqlite.NewUnitOfWork(database), oplog, nil, cfg.lockWait)
	identity := persistence.NewActorIdentityProvider(base.Users)
	executor := NewEffectExecutor(cfg.notifier, nil)

	return &testEnv{
		db:            database,
		locks:         locks,
		base:          base,
		oplog:         oplog,
		contracts:     NewContractService(guard, base, identity, executor),
		lessons:       NewLessonService(guard, base, identity, executor),
		appointments:  NewAppointmentService(guard, base, identity, executor),
		notifications: NewNotificationService(base.Notifications, identity),
	}
}

// as returns a context acting as the given user.
func as(actorID string) context.Context {
	return ctxutil.WithActorID(context.Background(), actorID)
}

// createContract creates an active contract for workerA on plan.
func (e *testEnv) createContract(t *testing.T, plan string) string {
	t.Helper()
	resp, err := e.contracts.SaveContract(as(adminID), primary.SaveContractRequest{
		WorkerID: workerA, CustomerID: "CUST-1", PlanID: plan,
	})
	require.NoError(t, err)
	return resp.ContractID
}

func (e *testEnv) lessonIDs(t *testing.T, contractID string) []string {
	t.Helper()
	c, err := e.contracts.GetContract(context.Background(), contractID)
	require.NoError(t, err)
	ids := make([]string, len(c.Lessons))
	for i, l := range c.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// recipients returns the recipients of notifications of type for an entity.
func (e *testEnv) recipients(t *testing.T, entityID, typ string) []string {
	t.Helper()
	rows, err := e.db.Query("SELECT recipient_id FROM notifications WHERE entity_id = ? AND type = ? ORDER BY recipient_id", entityID, typ)
	require.NoError(t, err)
	defer rows.Close()
	var out []string
	for rows.Next() {
		var r string
		require.NoError(t, rows.Scan(&r))
		out = append(out, r)
	}
	return out
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n))
	return n
}

func ptr[T any](v T) *T { return &v }

// failingNotifier fails every dispatch after running the real retractions.
type failingNotifier struct {
	*NotificationCoordinator
	err error
}

func (f failingNotifier) Dispatch(context.Context, secondary.Repositories, effects.NotifyEffect) (int, error) {
	return 0, f.err
}
