// Package notification contains the pure routing rules for notification fan-out.
// The routing and supersede tables are fixed; no I/O happens here.
package notification

import (
	"fmt"
	"sort"
)

// Type enumerates notification types, one per originating event.
type Type string

const (
	TypeContractFulfilled   Type = "contract_fulfilled"
	TypeAppointmentOpened   Type = "appointment_opened"
	TypeAppointmentAssigned Type = "appointment_assigned"
	TypeAppointmentDeclined Type = "appointment_declined"
	TypeAppointmentAccepted Type = "appointment_accepted"
)

// AdminVisible is the recipient used for administrator-visible records
// when no administrator account exists yet.
const AdminVisible = ""

// Entity types a notification can target.
const (
	EntityContract    = "contract"
	EntityAppointment = "appointment"
)

// ParseType validates a notification type string.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeContractFulfilled, TypeAppointmentOpened, TypeAppointmentAssigned,
		TypeAppointmentDeclined, TypeAppointmentAccepted:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

// RoutingInput holds everything the routing table needs, pre-fetched by the caller.
type RoutingInput struct {
	ActorID      string
	ActorIsAdmin bool
	SubjectID    string   // assigned worker (contract) or nominee (appointment)
	Admins       []string // ids of active administrators
	Workers      []string // ids of eligible workers
}

// Recipients resolves the recipient ids for an event.
// The result is sorted and free of duplicates. AdminVisible appears only when
// the event targets administrators and none are registered.
func Recipients(t Type, in RoutingInput) ([]string, error) {
	set := map[string]struct{}{}
	add := func(id string) { set[id] = struct{}{} }

	addAdmins := func(except string) {
		if len(in.Admins) == 0 {
			add(AdminVisible)
			return
		}
		for _, a := range in.Admins {
			if a != except {
				add(a)
			}
		}
	}
	addWorkers := func(except string) {
		for _, w := range in.Workers {
			if w != except {
				add(w)
			}
		}
	}

	switch t {
	case TypeContractFulfilled:
		if in.SubjectID != "" {
			add(in.SubjectID)
		}
		addAdmins("")
	case TypeAppointmentOpened:
		addWorkers(in.ActorID)
	case TypeAppointmentAssigned:
		if in.SubjectID == "" {
			return nil, fmt.Errorf("%s requires a nominated worker", t)
		}
		add(in.SubjectID)
	case TypeAppointmentDeclined:
		addWorkers(in.ActorID)
		addAdmins(in.ActorID)
	case TypeAppointmentAccepted:
		addAdmins(in.ActorID)
	default:
		return nil, fmt.Errorf("no route for notification type %q", t)
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Retraction names notification types made stale by a transition.
// ExcludeSubject keeps the records addressed to the transition's subject.
type Retraction struct {
	Types          []Type
	ExcludeSubject bool
}

// Supersedes returns the retractions to apply before dispatching t.
func Supersedes(t Type) []Retraction {
	switch t {
	case TypeAppointmentAssigned:
		return []Retraction{
			{Types: []Type{TypeAppointmentOpened, TypeAppointmentDeclined}},
			{Types: []Type{TypeAppointmentAssigned}, ExcludeSubject: true},
		}
	case TypeAppointmentDeclined:
		return []Retraction{
			{Types: []Type{TypeAppointmentAssigned, TypeAppointmentDeclined}},
		}
	case TypeAppointmentAccepted:
		return []Retraction{
			{Types: []Type{TypeAppointmentOpened, TypeAppointmentAssigned, TypeAppointmentDeclined, TypeAppointmentAccepted}},
		}
	}
	return nil
}

// TypeStrings converts types to their string form.
func TypeStrings(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
