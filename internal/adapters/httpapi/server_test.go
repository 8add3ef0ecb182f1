package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lessonbook/internal/adapters/httpapi"
	"github.com/example/lessonbook/internal/config"
	"github.com/example/lessonbook/internal/ctxutil"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/wire"
)

func setup(t *testing.T) (*gin.Engine, *wire.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.SeedFixtures(database))

	cfg := config.Defaults()
	cfg.LockWaitMS = 5000
	s := wire.Build(database, cfg, nil)
	return wire.NewRouter(s), s
}

func do(r http.Handler, method, path, actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(httpapi.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func openAppointment(t *testing.T, s *wire.Services) string {
	t.Helper()
	resp, err := s.Appointments.CreateAppointment(ctxutil.WithActorID(context.Background(), "USR-ADMIN"), primary.CreateAppointmentRequest{
		CandidateName: "Dana Reyes", Specialty: "piano",
	})
	require.NoError(t, err)
	return resp.Appointment.ID
}

func TestRequireActor(t *testing.T) {
	r, _ := setup(t)

	w := do(r, http.MethodGet, "/api/notifications", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/notifications", "USR-404", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClaim_ConcurrentRequestsHaveOneWinner(t *testing.T) {
	r, s := setup(t)
	id := openAppointment(t, s)

	codes := make([]int, 3)
	var wg sync.WaitGroup
	for i, worker := range []string{"USR-001", "USR-002", "USR-003"} {
		wg.Add(1)
		go func(i int, worker string) {
			defer wg.Done()
			codes[i] = do(r, http.MethodPost, "/api/appointments/"+id+"/claim", worker, "").Code
		}(i, worker)
	}
	wg.Wait()

	won, conflicts := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			won++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 2, conflicts)
}

func TestAssignAndDecline_ErrorMapping(t *testing.T) {
	r, s := setup(t)
	id := openAppointment(t, s)

	w := do(r, http.MethodPost, "/api/appointments/"+id+"/assign", "USR-001", `{"worker_id":"USR-002"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/api/appointments/"+id+"/assign", "USR-ADMIN", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/appointments/"+id+"/assign", "USR-ADMIN", `{"worker_id":"USR-002"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "assigned", body["to"])

	w = do(r, http.MethodPost, "/api/appointments/"+id+"/decline", "USR-003", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/api/appointments/"+id+"/decline", "USR-002", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/appointments/"+id+"/decline", "USR-002", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	body = decode(t, w)
	assert.Equal(t, id, body["entity_id"])
	assert.Equal(t, true, body["retryable"])

	w = do(r, http.MethodPost, "/api/appointments/APPT-999/claim", "USR-001", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkAndCompletion(t *testing.T) {
	r, s := setup(t)
	resp, err := s.Contracts.SaveContract(ctxutil.WithActorID(context.Background(), "USR-ADMIN"), primary.SaveContractRequest{
		WorkerID: "USR-001", CustomerID: "CUST-1", PlanID: "PLAN-4",
	})
	require.NoError(t, err)
	c, err := s.Contracts.GetContract(context.Background(), resp.ContractID)
	require.NoError(t, err)

	payload := `{"outcomes":[
		{"lesson_id":"` + c.Lessons[0].ID + `","completed_on":"2026-03-01"},
		{"lesson_id":"` + c.Lessons[1].ID + `","completed_on":"2026-03-08"},
		{"lesson_id":"` + c.Lessons[2].ID + `","completed_on":"2026-03-15"},
		{"lesson_id":"` + c.Lessons[3].ID + `","available":false},
		{"lesson_id":"LES-9999","completed_on":"2026-03-15"}
	]}`
	w := do(r, http.MethodPost, "/api/lessons/bulk", "USR-001", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 4, body["success_count"])
	assert.EqualValues(t, 1, body["error_count"])

	w = do(r, http.MethodGet, "/api/contracts/"+resp.ContractID+"/completion", "USR-001", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["is_complete"])
	assert.Equal(t, "3/3", body["summary"])

	w = do(r, http.MethodGet, "/api/notifications?unread=true", "USR-001", "")
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode(t, w)["notifications"].([]any)
	require.Len(t, notes, 1)
	noteID := notes[0].(map[string]any)["id"].(string)

	w = do(r, http.MethodPost, "/api/notifications/"+noteID+"/read", "USR-002", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/notifications/"+noteID+"/read", "USR-001", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBusyMapsToServiceUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := httpapi.NewRouter(httpapi.Services{Appointments: busyAppointments{}})

	w := do(r, http.MethodPost, "/api/appointments/APPT-001/claim", "USR-001", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
