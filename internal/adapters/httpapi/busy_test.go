package httpapi_test

import (
	"context"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/primary"
)

// busyAppointments reports every transition as contended.
type busyAppointments struct {
	primary.AppointmentService
}

func (busyAppointments) ClaimAppointment(ctx context.Context, id string) (*primary.AppointmentResponse, error) {
	return nil, fmt.Errorf("appointment.claim %s: %w", id, fault.ErrBusy)
}
