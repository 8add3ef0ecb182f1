// Package wire provides dependency injection for the lessonbook application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	cliadapter "github.com/example/lessonbook/internal/adapters/cli"
	"github.com/example/lessonbook/internal/adapters/httpapi"
	"github.com/example/lessonbook/internal/adapters/lock"
	"github.com/example/lessonbook/internal/adapters/persistence"
	"github.com/example/lessonbook/internal/adapters/sqlite"
	"github.com/example/lessonbook/internal/app"
	"github.com/example/lessonbook/internal/config"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/primary"
)

// Services holds every primary port, built over one database.
type Services struct {
	Contracts     primary.ContractService
	Lessons       primary.LessonService
	Appointments  primary.AppointmentService
	Notifications primary.NotificationService
	Operations    primary.OperationLogService
	Users         primary.UserService
	Plans         primary.PlanService
}

var (
	services *Services
	cfg      *config.Config
	once     sync.Once
)

// Build wires the services over database. Use-case events are logged to
// logOut at cfg.LogLevel; a nil logOut disables them.
func Build(database *sql.DB, c *config.Config, logOut io.Writer) *Services {
	level := app.ParseLogLevel(c.LogLevel)
	logger := slog.New(slog.NewTextHandler(orDiscard(logOut), &slog.HandlerOptions{Level: level}))

	// Secondary adapters
	base := sqlite.NewRepositories(database, nil)
	oplog := sqlite.NewOperationLogWriter(database)
	identity := persistence.NewActorIdentityProvider(base.Users)

	guard := app.NewGuard(
		lock.NewManager(),
		sqlite.NewUnitOfWork(database),
		oplog,
		app.NewLogUseCaseObserver(logOut, level),
		c.LockWait(),
	)
	executor := app.NewEffectExecutor(app.NewNotificationCoordinator(), logger)

	return &Services{
		Contracts:     app.NewContractService(guard, base, identity, executor),
		Lessons:       app.NewLessonService(guard, base, identity, executor),
		Appointments:  app.NewAppointmentService(guard, base, identity, executor),
		Notifications: app.NewNotificationService(base.Notifications, identity),
		Operations:    app.NewOperationLogService(oplog),
		Users:         app.NewUserService(base.Users),
		Plans:         app.NewPlanService(base.Plans),
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to resolve working directory: %v", err)
	}
	cfg, err = config.Load(wd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	services = Build(database, cfg, os.Stderr)
}

// Get returns the singleton services.
func Get() *Services {
	once.Do(initServices)
	return services
}

// Config returns the effective configuration the services were built with.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Router returns the HTTP API over the singleton services.
func Router() *gin.Engine {
	return NewRouter(Get())
}

// NewRouter returns the HTTP API over s.
func NewRouter(s *Services) *gin.Engine {
	return httpapi.NewRouter(httpapi.Services{
		Contracts:     s.Contracts,
		Lessons:       s.Lessons,
		Appointments:  s.Appointments,
		Notifications: s.Notifications,
	})
}

// ContractAdapter returns a new ContractAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func ContractAdapter(out io.Writer) *cliadapter.ContractAdapter {
	return cliadapter.NewContractAdapter(Get().Contracts, out)
}

// LessonAdapter returns a new LessonAdapter writing to out.
func LessonAdapter(out io.Writer) *cliadapter.LessonAdapter {
	return cliadapter.NewLessonAdapter(Get().Lessons, out)
}

// AppointmentAdapter returns a new AppointmentAdapter writing to out.
func AppointmentAdapter(out io.Writer) *cliadapter.AppointmentAdapter {
	return cliadapter.NewAppointmentAdapter(Get().Appointments, out)
}

// NotificationAdapter returns a new NotificationAdapter writing to out.
func NotificationAdapter(out io.Writer) *cliadapter.NotificationAdapter {
	s := Get()
	return cliadapter.NewNotificationAdapter(s.Notifications, s.Operations, out)
}
