package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/primary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}

// mockContractService implements primary.ContractService for testing.
type mockContractService struct {
	saveFn      func(ctx context.Context, req primary.SaveContractRequest) (*primary.SaveContractResponse, error)
	setStatusFn func(ctx context.Context, id, status string) (*primary.StatusChangeResponse, error)
	contract    *primary.Contract
	completion  *primary.Completion
}

func (m *mockContractService) SaveContract(ctx context.Context, req primary.SaveContractRequest) (*primary.SaveContractResponse, error) {
	return m.saveFn(ctx, req)
}

func (m *mockContractService) SetStatus(ctx context.Context, id, status string) (*primary.StatusChangeResponse, error) {
	return m.setStatusFn(ctx, id, status)
}

func (m *mockContractService) Evaluate(ctx context.Context, id string) (*primary.Completion, error) {
	return m.completion, nil
}

func (m *mockContractService) GetContract(ctx context.Context, id string) (*primary.Contract, error) {
	if m.contract == nil {
		return nil, fault.NotFound("contract", id)
	}
	return m.contract, nil
}

func (m *mockContractService) ListContracts(ctx context.Context, filters primary.ContractFilters) ([]*primary.Contract, error) {
	if m.contract == nil {
		return nil, nil
	}
	return []*primary.Contract{m.contract}, nil
}

// mockLessonService implements primary.LessonService for testing.
type mockLessonService struct {
	bulk *primary.BulkUpdateResponse
}

func (m *mockLessonService) RecordOutcome(ctx context.Context, o primary.LessonOutcome) (*primary.RecordOutcomeResponse, error) {
	return &primary.RecordOutcomeResponse{LessonID: o.LessonID, ContractID: "CON-001", Summary: "1/8", Status: "active"}, nil
}

func (m *mockLessonService) BulkUpdate(ctx context.Context, outcomes []primary.LessonOutcome) (*primary.BulkUpdateResponse, error) {
	return m.bulk, nil
}

// mockAppointmentService implements primary.AppointmentService for testing.
type mockAppointmentService struct {
	appointments []*primary.Appointment
	claimFn      func(ctx context.Context, id string) (*primary.AppointmentResponse, error)
}

func (m *mockAppointmentService) CreateAppointment(ctx context.Context, req primary.CreateAppointmentRequest) (*primary.AppointmentResponse, error) {
	return &primary.AppointmentResponse{
		Appointment: &primary.Appointment{ID: "APPT-001", CandidateName: req.CandidateName, Specialty: req.Specialty, Status: "open"},
		To:          "open",
		Notified:    3,
	}, nil
}

func (m *mockAppointmentService) AssignAppointment(ctx context.Context, id, workerID string) (*primary.AppointmentResponse, error) {
	return &primary.AppointmentResponse{
		Appointment: &primary.Appointment{ID: id, Status: "assigned", ClaimedBy: workerID},
		From:        "open", To: "assigned", Notified: 1, Retracted: 3,
	}, nil
}

func (m *mockAppointmentService) ClaimAppointment(ctx context.Context, id string) (*primary.AppointmentResponse, error) {
	return m.claimFn(ctx, id)
}

func (m *mockAppointmentService) DeclineAppointment(ctx context.Context, id string) (*primary.AppointmentResponse, error) {
	return nil, fault.ErrWrongState
}

func (m *mockAppointmentService) GetAppointment(ctx context.Context, id string) (*primary.Appointment, error) {
	return m.appointments[0], nil
}

func (m *mockAppointmentService) ListAppointments(ctx context.Context, filters primary.AppointmentFilters) ([]*primary.Appointment, error) {
	return m.appointments, nil
}

// mockNotificationService implements primary.NotificationService and
// primary.OperationLogService for testing.
type mockNotificationService struct {
	notifications []*primary.Notification
	entries       []*primary.OperationLogEntry
	marked        string
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	return m.notifications, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, id string) error {
	m.marked = id
	return nil
}

func (m *mockNotificationService) ListOperations(ctx context.Context, entityID string) ([]*primary.OperationLogEntry, error) {
	return m.entries, nil
}

func TestContractAdapter_Show(t *testing.T) {
	svc := &mockContractService{contract: &primary.Contract{
		ID: "CON-001", WorkerID: "USR-001", CustomerID: "CUST-7", PlanID: "PLAN-4",
		Status: "completed", Summary: "3/3", CompletionDates: []string{"2026-02-01", "2026-02-08", "2026-02-15"},
		Note: "Tuesday mornings", CompletedAt: "2026-02-15T10:00:00Z",
		Lessons: []*primary.Lesson{
			{ID: "LES-0001", Seq: 1, CompletedOn: "2026-02-01", Available: true},
			{ID: "LES-0002", Seq: 2, CompletedOn: "2026-02-08", Available: true, Note: "moved to studio B"},
			{ID: "LES-0003", Seq: 3, Available: false, Note: "holiday"},
			{ID: "LES-0004", Seq: 4, CompletedOn: "2026-02-15", Available: true},
		},
	}}
	var out bytes.Buffer
	require.NoError(t, NewContractAdapter(svc, &out).Show(context.Background(), "CON-001"))
	assertGolden(t, "contract_show", out.Bytes())
}

func TestContractAdapter_SaveWithWarnings(t *testing.T) {
	svc := &mockContractService{saveFn: func(ctx context.Context, req primary.SaveContractRequest) (*primary.SaveContractResponse, error) {
		return &primary.SaveContractResponse{
			Success: true, ContractID: req.ContractID, Summary: "8/8", Status: "completed", Completed: true,
			Warnings: []string{"contract CON-002: plan change removed lessons 9-10 (1 with recorded completion)"},
		}, nil
	}}
	var out bytes.Buffer
	err := NewContractAdapter(svc, &out).Save(context.Background(), primary.SaveContractRequest{IsUpdate: true, ContractID: "CON-002", PlanID: "PLAN-8"})
	require.NoError(t, err)
	assertGolden(t, "contract_save_warnings", out.Bytes())
}

func TestContractAdapter_RetriesBusy(t *testing.T) {
	calls := 0
	svc := &mockContractService{setStatusFn: func(ctx context.Context, id, status string) (*primary.StatusChangeResponse, error) {
		calls++
		if calls < 3 {
			return nil, fault.ErrBusy
		}
		return &primary.StatusChangeResponse{ContractID: id, From: "active", To: status}, nil
	}}
	var out bytes.Buffer
	adapter := NewContractAdapter(svc, &out)
	adapter.retry = Retry{Attempts: 3, Backoff: time.Millisecond}

	require.NoError(t, adapter.SetStatus(context.Background(), "CON-001", "cancelled"))
	assert.Equal(t, 3, calls)
	assert.Equal(t, "✓ Contract CON-001: active -> cancelled\n", out.String())
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := Retry{Attempts: 3, Backoff: time.Millisecond}.Do(context.Background(), func() error {
		calls++
		return fault.ErrBusy
	})
	require.ErrorIs(t, err, fault.ErrBusy)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry{Attempts: 3, Backoff: time.Millisecond}.Do(context.Background(), func() error {
		calls++
		return fault.ErrAlreadyClaimed
	})
	require.ErrorIs(t, err, fault.ErrAlreadyClaimed)
	assert.Equal(t, 1, calls)
}

func TestLessonAdapter_BulkReportsFailures(t *testing.T) {
	svc := &mockLessonService{bulk: &primary.BulkUpdateResponse{
		SuccessCount: 3,
		ErrorCount:   1,
		Errors: []primary.BulkItemError{
			{Index: 2, LessonID: "LES-0009", Error: "validation failure: lesson LES-0009 is excluded and cannot be completed"},
		},
		Contracts: []*primary.RecordOutcomeResponse{
			{ContractID: "CON-001", Summary: "7/7", Status: "completed", Completed: true},
			{ContractID: "CON-002", Summary: "1/8", Status: "active"},
		},
	}}
	var out bytes.Buffer
	err := NewLessonAdapter(svc, &out).Bulk(context.Background(), make([]primary.LessonOutcome, 4))
	require.EqualError(t, err, "1 of 4 outcome(s) failed")
	assertGolden(t, "lesson_bulk", out.Bytes())
}

func TestAppointmentAdapter_List(t *testing.T) {
	svc := &mockAppointmentService{appointments: []*primary.Appointment{
		{ID: "APPT-001", Status: "accepted", ClaimedBy: "USR-002", Specialty: "piano", CandidateName: "Dana Reyes"},
		{ID: "APPT-002", Status: "open", Specialty: "violin", CandidateName: "Ola Nordmann"},
	}}
	var out bytes.Buffer
	require.NoError(t, NewAppointmentAdapter(svc, &out).List(context.Background(), primary.AppointmentFilters{}))
	assertGolden(t, "appointment_list", out.Bytes())
}

func TestAppointmentAdapter_Transitions(t *testing.T) {
	svc := &mockAppointmentService{claimFn: func(ctx context.Context, id string) (*primary.AppointmentResponse, error) {
		return nil, fault.Transition("appointment", id, "accepted", "accepted", fault.ErrAlreadyClaimed, "appointment was accepted by USR-002")
	}}
	var out bytes.Buffer
	adapter := NewAppointmentAdapter(svc, &out)

	require.NoError(t, adapter.Assign(context.Background(), "APPT-001", "USR-001"))
	assert.Equal(t, "✓ Appointment APPT-001: open -> assigned (USR-001)\n  notified 1, retracted 3\n", out.String())

	err := adapter.Claim(context.Background(), "APPT-001")
	require.ErrorIs(t, err, fault.ErrAlreadyClaimed)

	err = adapter.Decline(context.Background(), "APPT-001")
	require.ErrorIs(t, err, fault.ErrWrongState)
}

func TestNotificationAdapter_ListAndOperations(t *testing.T) {
	svc := &mockNotificationService{
		notifications: []*primary.Notification{
			{ID: "n-1", Type: "contract_fulfilled", Message: "Contract CON-001 fulfilled (7/7)"},
			{ID: "n-2", Type: "appointment_opened", Message: "New piano appointment APPT-002 for Ola Nordmann", Read: true},
		},
		entries: []*primary.OperationLogEntry{
			{Seq: 1, Operation: "contract.status", Outcome: "started", ActorID: "USR-ADMIN"},
			{Seq: 2, Operation: "notify:contract_fulfilled", Outcome: "failed", ActorID: "USR-ADMIN", Error: "notification dispatch failure: mailbox full"},
			{Seq: 3, Operation: "contract.status", Outcome: "success", ActorID: "USR-ADMIN"},
		},
	}
	var out bytes.Buffer
	adapter := NewNotificationAdapter(svc, svc, &out)

	require.NoError(t, adapter.List(context.Background(), primary.NotificationFilters{}))
	require.NoError(t, adapter.Operations(context.Background(), "CON-001"))
	require.NoError(t, adapter.MarkRead(context.Background(), "n-1"))
	assert.Equal(t, "n-1", svc.marked)
	assertGolden(t, "notifications_and_oplog", out.Bytes())
}
