// Package lifecycle moves activities between a student's saved, discarded
// and historical collections. Each transition is one atomic statement
// against the store, scoped to the owning student.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/session"
	"github.com/sproutcare/sprout/internal/skills"
	"github.com/sproutcare/sprout/internal/store"
)

// StudentLookup resolves the owner of a collection.
type StudentLookup interface {
	Get(ctx context.Context, studentID string) (*activity.Student, error)
}

// Store is the activity lifecycle store.
type Store struct {
	repo     store.ActivityRepo
	students StudentLookup
	log      *logging.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for transition timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithLogger sets the logger for transition events.
func WithLogger(l *logging.Logger) Option { return func(s *Store) { s.log = l } }

// New creates a lifecycle Store over the given repositories.
func New(repo store.ActivityRepo, students StudentLookup, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		students: students,
		log:      logging.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save stores a suggested activity in the student's Saved collection.
// It fails with EmptySkillSet or InvalidCategory when the skills do not
// normalize, and nothing is written.
func (s *Store) Save(ctx context.Context, studentID string, a activity.Activity) (*activity.Activity, error) {
	out, err := s.insertSuggested(ctx, "lifecycle.save", studentID, a, activity.StateSaved)
	if err != nil {
		return nil, err
	}
	s.log.Debug("activity saved", "student_id", studentID, "activity_id", out.ID, "title", out.Title)
	return out, nil
}

// Discard stores a suggested activity in the student's Discarded collection
// and records its title as rejected in sess, which must belong to the same
// student.
func (s *Store) Discard(ctx context.Context, sess *session.Session, studentID string, a activity.Activity) (*activity.Activity, error) {
	const op = "lifecycle.discard"
	if sess == nil {
		return nil, activity.E(activity.KindInvalid, op, "no session to record the rejection in")
	}
	if sess.StudentID != studentID {
		return nil, activity.E(activity.KindInvalid, op, "session belongs to another student")
	}
	out, err := s.insertSuggested(ctx, op, studentID, a, activity.StateDiscarded)
	if err != nil {
		return nil, err
	}
	if err := sess.Tracker().RecordRejected(ctx, out.Title); err != nil {
		s.log.Warn("failed to persist rejected title", "session_id", sess.ID, "error", err)
	}
	s.log.Debug("activity discarded", "student_id", studentID, "activity_id", out.ID, "title", out.Title)
	return out, nil
}

// Restore moves a discarded activity to Saved in one statement, so it is
// never in both collections or in neither. Restoring does not remove the
// title from any session's exclusion set.
func (s *Store) Restore(ctx context.Context, studentID, activityID string) (*activity.Activity, error) {
	if err := s.repo.Move(ctx, studentID, activityID, activity.StateDiscarded, activity.StateSaved, s.now()); err != nil {
		return nil, err
	}
	s.log.Debug("activity restored", "student_id", studentID, "activity_id", activityID)
	return s.repo.Get(ctx, studentID, activityID)
}

// Remove deletes an activity from Saved or Discarded.
func (s *Store) Remove(ctx context.Context, studentID, activityID string, from activity.State) error {
	if from != activity.StateSaved && from != activity.StateDiscarded {
		return activity.E(activity.KindInvalid, "lifecycle.remove", "cannot remove from %q", from)
	}
	if err := s.repo.Delete(ctx, studentID, activityID, from); err != nil {
		return err
	}
	s.log.Debug("activity removed", "student_id", studentID, "activity_id", activityID, "from", from)
	return nil
}

// AppendHistory logs a past activity. History entries are never removed
// here. Skills are optional, but any given must normalize.
func (s *Store) AppendHistory(ctx context.Context, studentID string, a activity.Activity) (*activity.Activity, error) {
	const op = "lifecycle.history"
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return nil, activity.E(activity.KindInvalid, op, "title is required")
	}
	if len(a.Skills) > 0 {
		sk, err := skills.Validate(a.Skills)
		if err != nil {
			return nil, err
		}
		a.Skills = sk
	}
	if err := s.ownerExists(ctx, studentID); err != nil {
		return nil, err
	}
	if a.Source == "" {
		a.Source = activity.SourceManual
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	a = s.stamp(a, studentID, activity.StateHistorical, a.Timestamp)
	if err := s.repo.Insert(ctx, studentID, a); err != nil {
		return nil, err
	}
	s.log.Debug("history appended", "student_id", studentID, "activity_id", a.ID, "title", a.Title)
	return &a, nil
}

// Get returns one of the student's persisted activities.
func (s *Store) Get(ctx context.Context, studentID, activityID string) (*activity.Activity, error) {
	return s.repo.Get(ctx, studentID, activityID)
}

// List returns one of the student's collections, most recent first.
func (s *Store) List(ctx context.Context, studentID string, state activity.State, limit int) ([]activity.Activity, error) {
	if !state.Persisted() {
		return nil, activity.E(activity.KindInvalid, "lifecycle.list", "no stored collection for %q", state)
	}
	return s.repo.List(ctx, studentID, state, limit)
}

// insertSuggested validates a suggested activity and inserts it in state to.
func (s *Store) insertSuggested(ctx context.Context, op, studentID string, a activity.Activity, to activity.State) (*activity.Activity, error) {
	if a.State != "" && a.State != activity.StateSuggested {
		return nil, activity.E(activity.KindInvalid, op, "cannot move a %s activity to %s", a.State, to)
	}
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return nil, activity.E(activity.KindInvalid, op, "title is required")
	}
	sk, err := skills.Validate(a.Skills)
	if err != nil {
		return nil, err
	}
	a.Skills = sk
	if a.StudentID != "" && a.StudentID != studentID {
		return nil, activity.E(activity.KindNotFound, op, "activity %s not found for student %s", a.ID, studentID)
	}
	if err := s.ownerExists(ctx, studentID); err != nil {
		return nil, err
	}

	a = s.stamp(a, studentID, to, s.now())
	if err := s.repo.Insert(ctx, studentID, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) stamp(a activity.Activity, studentID string, state activity.State, at time.Time) activity.Activity {
	if a.ID == "" {
		a.ID = s.newID()
	}
	a.StudentID = studentID
	a.State = state
	a.Timestamp = at
	return a
}

func (s *Store) ownerExists(ctx context.Context, studentID string) error {
	if s.students == nil {
		return nil
	}
	_, err := s.students.Get(ctx, studentID)
	return err
}
