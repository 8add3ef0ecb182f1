package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/primary"
)

func openAppointment(t *testing.T, env *testEnv) string {
	t.Helper()
	resp, err := env.appointments.CreateAppointment(as(adminID), primary.CreateAppointmentRequest{
		CandidateName: "  Dana   Reyes ", Specialty: "Piano", Contact: "dana@example.com",
	})
	require.NoError(t, err)
	return resp.Appointment.ID
}

func TestCreateAppointment_NotifiesWorkers(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.appointments.CreateAppointment(as(adminID), primary.CreateAppointmentRequest{
		CandidateName: "  Dana   Reyes ", Specialty: "Piano",
	})
	require.NoError(t, err)
	assert.Equal(t, "APPT-001", resp.Appointment.ID)
	assert.Equal(t, "Dana Reyes", resp.Appointment.CandidateName)
	assert.Equal(t, "open", resp.Appointment.Status)
	assert.Empty(t, resp.Appointment.ClaimedBy)
	assert.Equal(t, 3, resp.Notified)
	assert.Equal(t, []string{workerA, workerB, workerC}, env.recipients(t, resp.Appointment.ID, "appointment_opened"))

	_, err = env.appointments.CreateAppointment(as(adminID), primary.CreateAppointmentRequest{Specialty: "Piano"})
	require.ErrorIs(t, err, fault.ErrValidation)
}

func TestAppointment_AssignThenDecline(t *testing.T) {
	env := newTestEnv(t)
	id := openAppointment(t, env)

	resp, err := env.appointments.AssignAppointment(as(adminID), id, workerA)
	require.NoError(t, err)
	assert.Equal(t, "assigned", resp.Appointment.Status)
	assert.Equal(t, workerA, resp.Appointment.ClaimedBy)
	assert.Equal(t, 3, resp.Retracted)
	assert.Empty(t, env.recipients(t, id, "appointment_opened"))
	assert.Equal(t, []string{workerA}, env.recipients(t, id, "appointment_assigned"))

	_, err = env.appointments.DeclineAppointment(as(workerB), id)
	require.ErrorIs(t, err, fault.ErrNotEligible)

	resp, err = env.appointments.DeclineAppointment(as(workerA), id)
	require.NoError(t, err)
	assert.Equal(t, "open", resp.Appointment.Status)
	assert.Empty(t, resp.Appointment.ClaimedBy)
	assert.Empty(t, env.recipients(t, id, "appointment_assigned"))
	assert.Equal(t, []string{workerB, workerC, adminID}, env.recipients(t, id, "appointment_declined"))

	// The declined appointment can be claimed from the open pool.
	resp, err = env.appointments.ClaimAppointment(as(workerB), id)
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.Appointment.Status)
	assert.Equal(t, workerB, resp.Appointment.ClaimedBy)
	assert.Equal(t, []string{adminID}, env.recipients(t, id, "appointment_accepted"))
	assert.Equal(t, 1, env.count(t, "SELECT COUNT(*) FROM notifications WHERE entity_id = ?", id))
}

func TestAppointment_AssignRules(t *testing.T) {
	env := newTestEnv(t)
	id := openAppointment(t, env)

	_, err := env.appointments.AssignAppointment(as(workerA), id, workerA)
	require.ErrorIs(t, err, fault.ErrNotEligible)

	_, err = env.appointments.AssignAppointment(as(adminID), id, adminID)
	require.ErrorIs(t, err, fault.ErrNotEligible)

	_, err = env.appointments.AssignAppointment(as(adminID), id, "USR-404")
	require.ErrorIs(t, err, fault.ErrNotEligible)

	_, err = env.appointments.ClaimAppointment(as(workerC), id)
	require.NoError(t, err)

	_, err = env.appointments.AssignAppointment(as(adminID), id, workerA)
	require.ErrorIs(t, err, fault.ErrAlreadyClaimed)
}

func TestAppointment_ClaimOnlyByNominee(t *testing.T) {
	env := newTestEnv(t)
	id := openAppointment(t, env)
	_, err := env.appointments.AssignAppointment(as(adminID), id, workerA)
	require.NoError(t, err)

	_, err = env.appointments.ClaimAppointment(as(workerB), id)
	require.ErrorIs(t, err, fault.ErrNotEligible)

	_, err = env.appointments.ClaimAppointment(as(adminID), id)
	require.ErrorIs(t, err, fault.ErrNotEligible)

	resp, err := env.appointments.ClaimAppointment(as(workerA), id)
	require.NoError(t, err)
	assert.Equal(t, "assigned", resp.From)
	assert.Equal(t, "accepted", resp.To)

	_, err = env.appointments.ClaimAppointment(as(workerA), id)
	require.ErrorIs(t, err, fault.ErrAlreadyClaimed)

	_, err = env.appointments.DeclineAppointment(as(workerA), id)
	require.ErrorIs(t, err, fault.ErrWrongState)
}

// claimConcurrently releases one ClaimAppointment per claimer at the same instant.
func claimConcurrently(env *testEnv, id string, claimers []string) []error {
	errs := make([]error, len(claimers))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, w := range claimers {
		wg.Add(1)
		go func(i int, w string) {
			defer wg.Done()
			<-start
			_, errs[i] = env.appointments.ClaimAppointment(as(w), id)
		}(i, w)
	}
	close(start)
	wg.Wait()
	return errs
}

func TestAppointment_ConcurrentClaimHasOneWinner(t *testing.T) {
	env := newTestEnv(t, withLockWait(5*time.Second))
	id := openAppointment(t, env)

	errs := claimConcurrently(env, id, []string{workerA, workerB, workerC})

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, errors.Is(err, fault.ErrAlreadyClaimed), "loser error: %v", err)
	}
	assert.Equal(t, 1, winners)

	appt, err := env.appointments.GetAppointment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "accepted", appt.Status)
	assert.Equal(t, 1, env.count(t, "SELECT COUNT(*) FROM notifications WHERE entity_id = ? AND type = 'appointment_accepted'", id))
}

// With no lock wait a loser either sees the committed claim or fails fast
// with a retryable Busy; it never overwrites the winner.
func TestAppointment_ConcurrentClaimWithoutLockWait(t *testing.T) {
	env := newTestEnv(t)

	for round := 0; round < 10; round++ {
		id := openAppointment(t, env)
		errs := claimConcurrently(env, id, []string{workerA, workerB, workerC})

		winner := ""
		for i, err := range errs {
			switch {
			case err == nil:
				assert.Empty(t, winner, "round %d: second winner", round)
				winner = []string{workerA, workerB, workerC}[i]
			case errors.Is(err, fault.ErrBusy):
				assert.True(t, fault.Retryable(err), "round %d: busy must be retryable", round)
			default:
				assert.ErrorIs(t, err, fault.ErrAlreadyClaimed, "round %d", round)
			}
		}
		require.NotEmpty(t, winner, "round %d: no winner", round)

		appt, err := env.appointments.GetAppointment(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "accepted", appt.Status)
		assert.Equal(t, winner, appt.ClaimedBy)
	}
	assert.Zero(t, env.locks.Held())
}

func TestCreateAppointment_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	env := newTestEnv(t)

	const creators = 8
	ids := make([]string, creators)
	errs := make([]error, creators)
	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := env.appointments.CreateAppointment(as(adminID), primary.CreateAppointmentRequest{
				CandidateName: "Candidate", Specialty: "Violin",
			})
			errs[i] = err
			if err == nil {
				ids[i] = resp.Appointment.ID
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range ids {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "id %s minted twice", ids[i])
		seen[ids[i]] = true
	}
	assert.Equal(t, creators, env.count(t, "SELECT COUNT(*) FROM appointments"))
}

func TestListAppointments_Filters(t *testing.T) {
	env := newTestEnv(t)
	first := openAppointment(t, env)
	openAppointment(t, env)
	_, err := env.appointments.ClaimAppointment(as(workerB), first)
	require.NoError(t, err)

	open, err := env.appointments.ListAppointments(context.Background(), primary.AppointmentFilters{Status: "open"})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	mine, err := env.appointments.ListAppointments(context.Background(), primary.AppointmentFilters{ClaimedBy: workerB})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first, mine[0].ID)
}
