// Package httpapi exposes the claim, decline, bulk-edit and notification
// operations as a JSON API on gin.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ctxutil"
	"github.com/example/lessonbook/internal/ports/primary"
)

// ActorHeader names the request header carrying the acting user's id.
// The role is always resolved from the user directory.
const ActorHeader = "X-Actor-ID"

// Services bundles the primary ports the API serves.
type Services struct {
	Contracts     primary.ContractService
	Lessons       primary.LessonService
	Appointments  primary.AppointmentService
	Notifications primary.NotificationService
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(RequireActor())
	{
		ah := &appointmentHandler{svc: s.Appointments}
		api.GET("/appointments", ah.List)
		api.GET("/appointments/:id", ah.Get)
		api.POST("/appointments/:id/assign", ah.Assign)
		api.POST("/appointments/:id/claim", ah.Claim)
		api.POST("/appointments/:id/decline", ah.Decline)

		lh := &lessonHandler{svc: s.Lessons}
		api.POST("/lessons/bulk", lh.Bulk)

		ch := &contractHandler{svc: s.Contracts}
		api.GET("/contracts/:id", ch.Get)
		api.GET("/contracts/:id/completion", ch.Completion)

		nh := &notificationHandler{svc: s.Notifications}
		api.GET("/notifications", nh.List)
		api.POST("/notifications/:id/read", nh.MarkRead)
	}
	return r
}

// RequireActor rejects requests without an actor header and carries the
// actor id into the request context.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithActorID(c.Request.Context(), actorID))
		c.Next()
	}
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fault.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, fault.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, fault.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fault.ErrAlreadyClaimed),
		errors.Is(err, fault.ErrWrongState),
		errors.Is(err, fault.ErrTerminalState):
		return http.StatusConflict
	case errors.Is(err, fault.ErrBusy):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error(), "retryable": fault.Retryable(err)}
	var te *fault.TransitionError
	if errors.As(err, &te) {
		body["entity_id"] = te.EntityID
		body["from"] = te.From
		body["to"] = te.To
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(status, body)
}
