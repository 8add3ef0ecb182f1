package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/lessonbook/internal/ports/primary"
)

// AppointmentAdapter translates CLI operations to AppointmentService calls.
type AppointmentAdapter struct {
	service primary.AppointmentService
	out     io.Writer
	retry   Retry
}

// NewAppointmentAdapter creates a new AppointmentAdapter with the given service.
func NewAppointmentAdapter(service primary.AppointmentService, out io.Writer) *AppointmentAdapter {
	return &AppointmentAdapter{service: service, out: out, retry: DefaultRetry}
}

// Create opens an appointment.
func (a *AppointmentAdapter) Create(ctx context.Context, req primary.CreateAppointmentRequest) error {
	resp, err := a.service.CreateAppointment(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created appointment %s for %s (%s)\n", okMark(), resp.Appointment.ID, resp.Appointment.CandidateName, resp.Appointment.Specialty)
	a.reportFanOut(resp)
	return nil
}

// Assign nominates a worker.
func (a *AppointmentAdapter) Assign(ctx context.Context, appointmentID, workerID string) error {
	return a.transition(ctx, func() (*primary.AppointmentResponse, error) {
		return a.service.AssignAppointment(ctx, appointmentID, workerID)
	})
}

// Claim accepts the appointment for the current worker.
func (a *AppointmentAdapter) Claim(ctx context.Context, appointmentID string) error {
	return a.transition(ctx, func() (*primary.AppointmentResponse, error) {
		return a.service.ClaimAppointment(ctx, appointmentID)
	})
}

// Decline returns a nomination to the open pool.
func (a *AppointmentAdapter) Decline(ctx context.Context, appointmentID string) error {
	return a.transition(ctx, func() (*primary.AppointmentResponse, error) {
		return a.service.DeclineAppointment(ctx, appointmentID)
	})
}

func (a *AppointmentAdapter) transition(ctx context.Context, call func() (*primary.AppointmentResponse, error)) error {
	var resp *primary.AppointmentResponse
	err := a.retry.Do(ctx, func() (err error) {
		resp, err = call()
		return err
	})
	if err != nil {
		return err
	}

	appt := resp.Appointment
	fmt.Fprintf(a.out, "%s Appointment %s: %s -> %s", okMark(), appt.ID, resp.From, statusLabel(resp.To))
	if appt.ClaimedBy != "" {
		fmt.Fprintf(a.out, " (%s)", appt.ClaimedBy)
	}
	fmt.Fprintln(a.out)
	a.reportFanOut(resp)
	return nil
}

func (a *AppointmentAdapter) reportFanOut(resp *primary.AppointmentResponse) {
	if resp.Notified > 0 || resp.Retracted > 0 {
		fmt.Fprintf(a.out, "  notified %d, retracted %d\n", resp.Notified, resp.Retracted)
	}
}

// Show displays a single appointment.
func (a *AppointmentAdapter) Show(ctx context.Context, appointmentID string) error {
	appt, err := a.service.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Appointment: %s\n", appt.ID)
	fmt.Fprintf(a.out, "Candidate:   %s\n", appt.CandidateName)
	fmt.Fprintf(a.out, "Specialty:   %s\n", appt.Specialty)
	if appt.Contact != "" {
		fmt.Fprintf(a.out, "Contact:     %s\n", appt.Contact)
	}
	fmt.Fprintf(a.out, "Status:      %s\n", statusLabel(appt.Status))
	fmt.Fprintf(a.out, "Claimed by:  %s\n", orDash(appt.ClaimedBy))
	fmt.Fprintf(a.out, "Created by:  %s\n", appt.CreatedBy)
	return nil
}

// List lists appointments.
func (a *AppointmentAdapter) List(ctx context.Context, filters primary.AppointmentFilters) error {
	appts, err := a.service.ListAppointments(ctx, filters)
	if err != nil {
		return err
	}
	if len(appts) == 0 {
		fmt.Fprintln(a.out, "No appointments found")
		return nil
	}

	section(a.out, fmt.Sprintf("%-10s %-10s %-10s %-16s %s", "ID", "STATUS", "CLAIMED", "SPECIALTY", "CANDIDATE"))
	for _, ap := range appts {
		fmt.Fprintf(a.out, "%-10s %-10s %-10s %-16s %s\n", ap.ID, statusLabel(ap.Status), orDash(ap.ClaimedBy), ap.Specialty, ap.CandidateName)
	}
	return nil
}
