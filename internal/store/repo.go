package store

import (
	"context"
	"time"

	"github.com/sproutcare/sprout/internal/activity"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Purpose   string
	StudentID string
}

// StudentRepo stores student records.
type StudentRepo interface {
	// Put inserts or replaces a student, keeping the original CreatedAt.
	Put(ctx context.Context, s *activity.Student) error

	// Get returns the student or an error of kind NotFound.
	Get(ctx context.Context, studentID string) (*activity.Student, error)

	// List returns every student ordered by name.
	List(ctx context.Context) ([]activity.Student, error)
}

// ActivityRepo stores the saved, discarded and historical collections.
// Every method is scoped to one student; rows owned by another student are
// invisible.
type ActivityRepo interface {
	// Insert adds a into the collection named by a.State. A second insert of
	// the same activity id for the student fails with kind Conflict.
	Insert(ctx context.Context, studentID string, a activity.Activity) error

	// Get returns one activity or an error of kind NotFound.
	Get(ctx context.Context, studentID, activityID string) (*activity.Activity, error)

	// Move changes the state of an activity currently in from, stamping it
	// with at. It fails with kind NotFound when no such row exists.
	Move(ctx context.Context, studentID, activityID string, from, to activity.State, at time.Time) error

	// Delete removes an activity currently in state. It fails with kind
	// NotFound when no such row exists.
	Delete(ctx context.Context, studentID, activityID string, state activity.State) error

	// List returns one collection, most recent first. limit <= 0 means all.
	List(ctx context.Context, studentID string, state activity.State, limit int) ([]activity.Activity, error)
}

// GenerationEventData captures the data for a single generator call.
type GenerationEventData struct {
	Provider     string
	Model        string
	Purpose      string
	StudentID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// GenerationEvent is a stored generator call.
type GenerationEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// UsageStats aggregates generation events by purpose or model.
type UsageStats struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to generation events.
type EventRepo interface {
	// AppendGeneration records a generator call.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryGenerations returns events newest first.
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error)

	// GetGeneration returns the event with the given id, or nil.
	GetGeneration(ctx context.Context, id int) (*GenerationEvent, error)

	// UsageByPurpose aggregates token usage per purpose.
	UsageByPurpose(ctx context.Context) ([]UsageStats, error)

	// UsageByModel aggregates token usage per model.
	UsageByModel(ctx context.Context) ([]UsageStats, error)
}
