package primary

import "context"

// LessonService defines the primary port for progress tracking on lessons.
type LessonService interface {
	// RecordOutcome applies one lesson outcome and re-evaluates its contract.
	RecordOutcome(ctx context.Context, outcome LessonOutcome) (*RecordOutcomeResponse, error)

	// BulkUpdate applies outcomes in order, one contract lock scope at a time.
	// Item failures are reported per item and never abort the batch.
	BulkUpdate(ctx context.Context, outcomes []LessonOutcome) (*BulkUpdateResponse, error)
}

// LessonOutcome is a requested change to one lesson.
type LessonOutcome struct {
	LessonID    string
	CompletedOn string  // YYYY-MM-DD, empty clears completion
	Note        *string // nil leaves the note unchanged
	Available   *bool   // nil leaves availability unchanged
}

// RecordOutcomeResponse contains the result of recording one outcome.
type RecordOutcomeResponse struct {
	LessonID   string
	ContractID string
	Summary    string
	Status     string
	Completed  bool // true when this write fired Active -> Completed
}

// BulkUpdateResponse reports per-item outcomes of a bulk edit.
type BulkUpdateResponse struct {
	SuccessCount int
	ErrorCount   int
	Errors       []BulkItemError
	Contracts    []*RecordOutcomeResponse // one per distinct affected contract
}

// BulkItemError describes one failed item of a bulk edit.
type BulkItemError struct {
	Index    int
	LessonID string
	Error    string
}

// Lesson represents a lesson entity at the port boundary.
type Lesson struct {
	ID          string
	ContractID  string
	Seq         int
	CompletedOn string
	Note        string
	Available   bool
}
