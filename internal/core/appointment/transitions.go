package appointment

import (
	"github.com/example/lessonbook/internal/core/effects"
	"github.com/example/lessonbook/internal/core/notification"
)

// Profile is the requester-entered candidate profile.
type Profile struct {
	CandidateName string
	Specialty     string
	Contact       string
}

// Actor identifies who triggers a transition.
type Actor struct {
	ID      string
	IsAdmin bool
}

// TransitionPlan captures the new state and the notification effects.
// Retractions always precede the dispatch they make room for.
type TransitionPlan struct {
	From      Status
	To        Status
	ClaimedBy string // empty when To is open
	Effects   []effects.Effect
}

// InitialStatus returns the status of a newly created appointment.
func InitialStatus() Status {
	return StatusOpen
}

// PlanOpen plans the notifications for a newly created appointment.
func PlanOpen(id string, p Profile, actor Actor) TransitionPlan {
	return TransitionPlan{
		To:      StatusOpen,
		Effects: planEffects(notification.TypeAppointmentOpened, id, p, actor, ""),
	}
}

// PlanAssign plans Open -> Assigned for the nominee.
func PlanAssign(id string, p Profile, actor Actor, nomineeID string) TransitionPlan {
	return TransitionPlan{
		From:      StatusOpen,
		To:        StatusAssigned,
		ClaimedBy: nomineeID,
		Effects:   planEffects(notification.TypeAppointmentAssigned, id, p, actor, nomineeID),
	}
}

// PlanAccept plans Open/Assigned -> Accepted by the claiming worker.
func PlanAccept(id string, from Status, p Profile, actor Actor) TransitionPlan {
	return TransitionPlan{
		From:      from,
		To:        StatusAccepted,
		ClaimedBy: actor.ID,
		Effects:   planEffects(notification.TypeAppointmentAccepted, id, p, actor, actor.ID),
	}
}

// PlanDecline plans Assigned -> Open, clearing the claim.
func PlanDecline(id string, p Profile, actor Actor) TransitionPlan {
	return TransitionPlan{
		From:    StatusAssigned,
		To:      StatusOpen,
		Effects: planEffects(notification.TypeAppointmentDeclined, id, p, actor, actor.ID),
	}
}

func planEffects(t notification.Type, id string, p Profile, actor Actor, subjectID string) []effects.Effect {
	var out []effects.Effect
	for _, r := range notification.Supersedes(t) {
		retract := effects.RetractEffect{
			EntityType: notification.EntityAppointment,
			EntityID:   id,
			Types:      notification.TypeStrings(r.Types),
		}
		if r.ExcludeSubject {
			retract.ExcludeRecipient = subjectID
		}
		out = append(out, retract)
	}
	out = append(out, effects.NotifyEffect{
		Event:        string(t),
		EntityType:   notification.EntityAppointment,
		EntityID:     id,
		ActorID:      actor.ID,
		ActorIsAdmin: actor.IsAdmin,
		SubjectID:    subjectID,
		Fields: map[string]string{
			"candidate": p.CandidateName,
			"specialty": p.Specialty,
			"actor":     actor.ID,
		},
	})
	return out
}
