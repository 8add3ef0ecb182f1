package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/lessonbook/internal/ports/primary"
)

type appointmentView struct {
	ID            string `json:"id"`
	CandidateName string `json:"candidate_name"`
	Specialty     string `json:"specialty"`
	Contact       string `json:"contact,omitempty"`
	Status        string `json:"status"`
	ClaimedBy     string `json:"claimed_by,omitempty"`
	CreatedBy     string `json:"created_by"`
	Version       int    `json:"version"`
}

func toAppointmentView(a *primary.Appointment) appointmentView {
	return appointmentView{
		ID:            a.ID,
		CandidateName: a.CandidateName,
		Specialty:     a.Specialty,
		Contact:       a.Contact,
		Status:        a.Status,
		ClaimedBy:     a.ClaimedBy,
		CreatedBy:     a.CreatedBy,
		Version:       a.Version,
	}
}

type appointmentHandler struct {
	svc primary.AppointmentService
}

// GET /api/appointments?status=open&claimed_by=USR-001
func (h *appointmentHandler) List(c *gin.Context) {
	appts, err := h.svc.ListAppointments(c.Request.Context(), primary.AppointmentFilters{
		Status:    c.Query("status"),
		ClaimedBy: c.Query("claimed_by"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]appointmentView, len(appts))
	for i, a := range appts {
		out[i] = toAppointmentView(a)
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

// GET /api/appointments/:id
func (h *appointmentHandler) Get(c *gin.Context) {
	appt, err := h.svc.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentView(appt))
}

// POST /api/appointments/:id/assign (administrators)
func (h *appointmentHandler) Assign(c *gin.Context) {
	var in struct {
		WorkerID string `json:"worker_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.svc.AssignAppointment(c.Request.Context(), c.Param("id"), in.WorkerID)
	h.respond(c, resp, err)
}

// POST /api/appointments/:id/claim
func (h *appointmentHandler) Claim(c *gin.Context) {
	resp, err := h.svc.ClaimAppointment(c.Request.Context(), c.Param("id"))
	h.respond(c, resp, err)
}

// POST /api/appointments/:id/decline
func (h *appointmentHandler) Decline(c *gin.Context) {
	resp, err := h.svc.DeclineAppointment(c.Request.Context(), c.Param("id"))
	h.respond(c, resp, err)
}

func (h *appointmentHandler) respond(c *gin.Context, resp *primary.AppointmentResponse, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"appointment": toAppointmentView(resp.Appointment),
		"from":        resp.From,
		"to":          resp.To,
		"notified":    resp.Notified,
		"retracted":   resp.Retracted,
	})
}

type lessonHandler struct {
	svc primary.LessonService
}

type lessonOutcomeJSON struct {
	LessonID    string  `json:"lesson_id"`
	CompletedOn string  `json:"completed_on"`
	Note        *string `json:"note"`
	Available   *bool   `json:"available"`
}

// POST /api/lessons/bulk
//
// Item failures are reported in the body; the request itself succeeds.
func (h *lessonHandler) Bulk(c *gin.Context) {
	var in struct {
		Outcomes []lessonOutcomeJSON `json:"outcomes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcomes := make([]primary.LessonOutcome, len(in.Outcomes))
	for i, o := range in.Outcomes {
		outcomes[i] = primary.LessonOutcome{
			LessonID:    o.LessonID,
			CompletedOn: o.CompletedOn,
			Note:        o.Note,
			Available:   o.Available,
		}
	}

	resp, err := h.svc.BulkUpdate(c.Request.Context(), outcomes)
	if err != nil {
		writeError(c, err)
		return
	}

	errs := make([]gin.H, len(resp.Errors))
	for i, e := range resp.Errors {
		errs[i] = gin.H{"index": e.Index, "lesson_id": e.LessonID, "error": e.Error}
	}
	contracts := make([]gin.H, len(resp.Contracts))
	for i, r := range resp.Contracts {
		contracts[i] = gin.H{"contract_id": r.ContractID, "summary": r.Summary, "status": r.Status, "completed": r.Completed}
	}
	c.JSON(http.StatusOK, gin.H{
		"success_count": resp.SuccessCount,
		"error_count":   resp.ErrorCount,
		"errors":        errs,
		"contracts":     contracts,
	})
}

type contractHandler struct {
	svc primary.ContractService
}

// GET /api/contracts/:id
func (h *contractHandler) Get(c *gin.Context) {
	ct, err := h.svc.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	lessons := make([]gin.H, len(ct.Lessons))
	for i, l := range ct.Lessons {
		lessons[i] = gin.H{"id": l.ID, "seq": l.Seq, "completed_on": l.CompletedOn, "note": l.Note, "available": l.Available}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":               ct.ID,
		"worker_id":        ct.WorkerID,
		"customer_id":      ct.CustomerID,
		"plan_id":          ct.PlanID,
		"status":           ct.Status,
		"summary":          ct.Summary,
		"completion_dates": ct.CompletionDates,
		"completed_at":     ct.CompletedAt,
		"lessons":          lessons,
	})
}

// GET /api/contracts/:id/completion
func (h *contractHandler) Completion(c *gin.Context) {
	r, err := h.svc.Evaluate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"contract_id":         r.ContractID,
		"is_complete":         r.IsComplete,
		"completed_available": r.CompletedAvailable,
		"total_available":     r.TotalAvailable,
		"total_units":         r.TotalUnits,
		"excluded":            r.Excluded,
		"summary":             r.Summary,
	})
}

type notificationHandler struct {
	svc primary.NotificationService
}

// GET /api/notifications?entity_id=CON-001&unread=true&limit=20
func (h *notificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	notes, err := h.svc.ListNotifications(c.Request.Context(), primary.NotificationFilters{
		EntityID:   c.Query("entity_id"),
		UnreadOnly: unread,
		Limit:      limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, len(notes))
	for i, n := range notes {
		out[i] = gin.H{
			"id":           n.ID,
			"type":         n.Type,
			"entity_type":  n.EntityType,
			"entity_id":    n.EntityID,
			"recipient_id": n.RecipientID,
			"message":      n.Message,
			"read":         n.Read,
			"created_at":   n.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

// POST /api/notifications/:id/read
func (h *notificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
