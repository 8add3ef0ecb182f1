package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/lessonbook/internal/core/appointment"
	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// AppointmentServiceImpl implements the AppointmentService interface.
type AppointmentServiceImpl struct {
	guard    *Guard
	base     secondary.Repositories
	identity secondary.IdentityProvider
	executor EffectExecutor
	now      func() time.Time
}

// NewAppointmentService creates a new AppointmentService with injected dependencies.
func NewAppointmentService(
	guard *Guard,
	base secondary.Repositories,
	identity secondary.IdentityProvider,
	executor EffectExecutor,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		guard:    guard,
		base:     base,
		identity: identity,
		executor: executor,
		now:      time.Now,
	}
}

// CreateAppointment opens a new appointment and notifies eligible workers.
func (s *AppointmentServiceImpl) CreateAppointment(ctx context.Context, req primary.CreateAppointmentRequest) (*primary.AppointmentResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := appointment.NormalizeProfile(appointment.Profile{
		CandidateName: req.CandidateName,
		Specialty:     req.Specialty,
		Contact:       req.Contact,
	})
	if err != nil {
		return nil, err
	}

	resp := &primary.AppointmentResponse{To: string(appointment.InitialStatus())}
	_, err = s.guard.Create(ctx, "appointment", "appointment.create", s.base.Appointments.GetNextID,
		func(ctx context.Context, id string, repos secondary.Repositories) error {
			stamp := s.now().UTC().Format(time.RFC3339)
			record := &secondary.AppointmentRecord{
				ID:            id,
				CandidateName: profile.CandidateName,
				Specialty:     profile.Specialty,
				Contact:       profile.Contact,
				Status:        string(appointment.InitialStatus()),
				CreatedBy:     actor.ID,
				CreatedAt:     stamp,
				UpdatedAt:     stamp,
			}
			if err := repos.Appointments.Create(ctx, record); err != nil {
				return err
			}

			plan := appointment.PlanOpen(id, profile, toAppointmentActor(actor))
			return s.finish(ctx, repos, id, plan, resp)
		})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AssignAppointment nominates a worker.
func (s *AppointmentServiceImpl) AssignAppointment(ctx context.Context, appointmentID, workerID string) (*primary.AppointmentResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	if workerID == "" {
		return nil, fault.Validation("worker id is required")
	}
	nomineeIsWorker := false
	if nominee, err := s.base.Users.GetByID(ctx, workerID); err == nil {
		nomineeIsWorker = nominee.Role == "worker" && nominee.Active
	} else if !errors.Is(err, fault.ErrNotFound) {
		return nil, err
	}

	return s.transition(ctx, appointmentID, "appointment.assign", func(rec *secondary.AppointmentRecord, p appointment.Profile) (appointment.TransitionPlan, error) {
		if err := appointment.CanAssign(appointment.AssignContext{
			AppointmentID:   rec.ID,
			Status:          appointment.Status(rec.Status),
			ActorIsAdmin:    actor.IsAdmin(),
			NomineeID:       workerID,
			NomineeIsWorker: nomineeIsWorker,
		}).Error(); err != nil {
			return appointment.TransitionPlan{}, err
		}
		return appointment.PlanAssign(rec.ID, p, toAppointmentActor(actor), workerID), nil
	})
}

// ClaimAppointment accepts the appointment for the current worker.
func (s *AppointmentServiceImpl) ClaimAppointment(ctx context.Context, appointmentID string) (*primary.AppointmentResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, appointmentID, "appointment.claim", func(rec *secondary.AppointmentRecord, p appointment.Profile) (appointment.TransitionPlan, error) {
		from := appointment.Status(rec.Status)
		if err := appointment.CanAccept(appointment.AcceptContext{
			AppointmentID: rec.ID,
			Status:        from,
			ClaimedBy:     rec.ClaimedBy,
			ActorID:       actor.ID,
			ActorIsWorker: actor.IsWorker(),
		}).Error(); err != nil {
			return appointment.TransitionPlan{}, err
		}
		return appointment.PlanAccept(rec.ID, from, p, toAppointmentActor(actor)), nil
	})
}

// DeclineAppointment returns a nomination to the open pool.
func (s *AppointmentServiceImpl) DeclineAppointment(ctx context.Context, appointmentID string) (*primary.AppointmentResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, appointmentID, "appointment.decline", func(rec *secondary.AppointmentRecord, p appointment.Profile) (appointment.TransitionPlan, error) {
		if err := appointment.CanDecline(appointment.DeclineContext{
			AppointmentID: rec.ID,
			Status:        appointment.Status(rec.Status),
			ClaimedBy:     rec.ClaimedBy,
			ActorID:       actor.ID,
		}).Error(); err != nil {
			return appointment.TransitionPlan{}, err
		}
		return appointment.PlanDecline(rec.ID, p, toAppointmentActor(actor)), nil
	})
}

type planFunc func(rec *secondary.AppointmentRecord, p appointment.Profile) (appointment.TransitionPlan, error)

// transition loads the appointment, plans the move, and commits it with a
// conditional update that only matches the version that was read.
func (s *AppointmentServiceImpl) transition(ctx context.Context, id, operation string, planFn planFunc) (*primary.AppointmentResponse, error) {
	resp := &primary.AppointmentResponse{}
	err := s.guard.Run(ctx, id, operation, func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := repos.Appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		profile := appointment.Profile{CandidateName: rec.CandidateName, Specialty: rec.Specialty, Contact: rec.Contact}

		plan, err := planFn(rec, profile)
		if err != nil {
			return err
		}

		swapped, err := repos.Appointments.CompareAndSwap(ctx, id, rec.Version, string(plan.To), plan.ClaimedBy)
		if err != nil {
			return err
		}
		if !swapped {
			kind := fault.ErrWrongState
			if plan.To == appointment.StatusAccepted {
				kind = fault.ErrAlreadyClaimed
			}
			return fault.Transition("appointment", id, string(plan.From), string(plan.To), kind, "appointment changed concurrently")
		}

		return s.finish(ctx, repos, id, plan, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AppointmentServiceImpl) finish(ctx context.Context, repos secondary.Repositories, id string, plan appointment.TransitionPlan, resp *primary.AppointmentResponse) error {
	report, err := s.executor.Execute(ctx, repos, plan.Effects)
	if err != nil {
		return err
	}
	rec, err := repos.Appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	resp.Appointment = recordToAppointment(rec)
	resp.From = string(plan.From)
	resp.To = string(plan.To)
	resp.Notified = report.Notified
	resp.Retracted = report.Retracted
	return nil
}

// GetAppointment retrieves an appointment by ID.
func (s *AppointmentServiceImpl) GetAppointment(ctx context.Context, appointmentID string) (*primary.Appointment, error) {
	rec, err := s.base.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return recordToAppointment(rec), nil
}

// ListAppointments lists appointments with optional filters.
func (s *AppointmentServiceImpl) ListAppointments(ctx context.Context, filters primary.AppointmentFilters) ([]*primary.Appointment, error) {
	records, err := s.base.Appointments.List(ctx, secondary.AppointmentFilters{
		Status:    filters.Status,
		ClaimedBy: filters.ClaimedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	out := make([]*primary.Appointment, len(records))
	for i, r := range records {
		out[i] = recordToAppointment(r)
	}
	return out, nil
}

func toAppointmentActor(a *secondary.Actor) appointment.Actor {
	return appointment.Actor{ID: a.ID, IsAdmin: a.IsAdmin()}
}

func recordToAppointment(r *secondary.AppointmentRecord) *primary.Appointment {
	return &primary.Appointment{
		ID:            r.ID,
		CandidateName: r.CandidateName,
		Specialty:     r.Specialty,
		Contact:       r.Contact,
		Status:        r.Status,
		ClaimedBy:     r.ClaimedBy,
		CreatedBy:     r.CreatedBy,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

var _ primary.AppointmentService = (*AppointmentServiceImpl)(nil)
