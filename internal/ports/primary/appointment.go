package primary

import "context"

// AppointmentService defines the primary port for the appointment claim workflow.
type AppointmentService interface {
	// CreateAppointment opens a new appointment and notifies eligible workers.
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*AppointmentResponse, error)

	// AssignAppointment nominates a worker (administrators only).
	AssignAppointment(ctx context.Context, appointmentID, workerID string) (*AppointmentResponse, error)

	// ClaimAppointment accepts the appointment for the current worker.
	ClaimAppointment(ctx context.Context, appointmentID string) (*AppointmentResponse, error)

	// DeclineAppointment returns a nomination to the open pool.
	DeclineAppointment(ctx context.Context, appointmentID string) (*AppointmentResponse, error)

	// GetAppointment retrieves an appointment by ID.
	GetAppointment(ctx context.Context, appointmentID string) (*Appointment, error)

	// ListAppointments lists appointments with optional filters.
	ListAppointments(ctx context.Context, filters AppointmentFilters) ([]*Appointment, error)
}

// CreateAppointmentRequest contains the requester-entered candidate profile.
type CreateAppointmentRequest struct {
	CandidateName string
	Specialty     string
	Contact       string
}

// AppointmentResponse contains the result of an appointment transition.
type AppointmentResponse struct {
	Appointment *Appointment
	From        string
	To          string
	Notified    int
	Retracted   int
}

// Appointment represents an appointment entity at the port boundary.
// Status lifecycle: open → assigned → accepted, assigned → open on decline
type Appointment struct {
	ID            string
	CandidateName string
	Specialty     string
	Contact       string
	Status        string
	ClaimedBy     string
	CreatedBy     string
	Version       int
	CreatedAt     string
	UpdatedAt     string
}

// AppointmentFilters contains filter options for listing appointments.
type AppointmentFilters struct {
	Status    string
	ClaimedBy string
}
