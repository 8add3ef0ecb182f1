// Package effects defines effect types as data structures representing I/O operations.
// State-machine planners in the functional core return effects; the application
// shell interprets them inside the operation's unit of work.
package effects

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a structured log line emitted by the shell.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// NotifyEffect asks the notification coordinator to fan out an event.
// Recipients are resolved by the coordinator from the routing table.
type NotifyEffect struct {
	Event        string // e.g., "contract_fulfilled", "appointment_declined"
	EntityType   string // "contract" or "appointment"
	EntityID     string
	ActorID      string
	ActorIsAdmin bool
	SubjectID    string            // assigned or nominated worker, empty if none
	Fields       map[string]string // message template values
}

func (e NotifyEffect) EffectType() string { return "notify" }

// RetractEffect deletes superseded notifications by exact (entity, type) match.
type RetractEffect struct {
	EntityType       string
	EntityID         string
	Types            []string
	ExcludeRecipient string // empty retracts for every recipient
}

func (e RetractEffect) EffectType() string { return "retract" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
