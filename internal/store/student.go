package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/sproutcare/sprout/internal/activity"
)

type studentRepo struct {
	db *sql.DB
}

var studentColumns = []string{
	"student_id", "name", "age", "personality", "interests", "goals",
	"recent_activity", "created_at", "updated_at",
}

func (r *studentRepo) Put(ctx context.Context, s *activity.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	interests, err := marshalJSON(s.Interests)
	if err != nil {
		return err
	}
	goals, err := marshalJSON(s.Goals)
	if err != nil {
		return err
	}
	var recent any
	if s.RecentActivity != nil {
		if recent, err = marshalJSON(s.RecentActivity); err != nil {
			return err
		}
	}

	q, args := builder().Insert(tableStudents).
		Columns(studentColumns...).
		Values(s.ID, s.Name, s.Age, s.Personality, interests, goals, recent, s.CreatedAt.UTC(), s.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("student_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range studentColumns {
					if c != "student_id" && c != "created_at" {
						u.SetExcluded(c)
					}
				}
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save student %s: %w", s.ID, err)
	}
	return nil
}

func (r *studentRepo) Get(ctx context.Context, studentID string) (*activity.Student, error) {
	q, args := builder().Select(studentColumns...).
		From(builder().Table(tableStudents)).
		Where(entsql.EQ("student_id", studentID)).
		Query()
	s, err := scanStudent(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, activity.E(activity.KindNotFound, "store.student", "student %q not found", studentID)
	}
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", studentID, err)
	}
	return s, nil
}

func (r *studentRepo) List(ctx context.Context) ([]activity.Student, error) {
	q, args := builder().Select(studentColumns...).
		From(builder().Table(tableStudents)).
		OrderBy("name", "student_id").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var out []activity.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*activity.Student, error) {
	var (
		s                        activity.Student
		interests, goals, recent []byte
	)
	err := row.Scan(&s.ID, &s.Name, &s.Age, &s.Personality, &interests, &goals, &recent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(interests, &s.Interests); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(goals, &s.Goals); err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		s.RecentActivity = &activity.RecentActivity{}
		if err := unmarshalJSON(recent, s.RecentActivity); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(b), nil
}

func unmarshalJSON(b []byte, v any) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}
