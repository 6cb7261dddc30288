package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/sproutcare/sprout/internal/activity"
)

type activityRepo struct {
	db *sql.DB
}

var activityColumns = []string{
	"activity_id", "student_id", "state", "title", "rationale", "notes",
	"theme", "source", "skills", "materials", "steps", "outcomes",
	"safety_tips", "timestamp",
}

func (r *activityRepo) Insert(ctx context.Context, studentID string, a activity.Activity) error {
	const op = "store.activity.insert"
	if !a.State.Persisted() {
		return activity.E(activity.KindInvalid, op, "state %q is not stored", a.State)
	}

	values := []any{a.ID, studentID, string(a.State), a.Title, a.Rationale, a.Notes, a.Theme, string(a.Source)}
	for _, v := range []any{a.Skills, a.Materials, a.Steps, a.Outcomes, a.SafetyTips} {
		enc, err := marshalJSON(v)
		if err != nil {
			return err
		}
		values = append(values, enc)
	}
	values = append(values, a.Timestamp.UTC())

	q, args := builder().Insert(tableActivities).
		Columns(activityColumns...).
		Values(values...).
		OnConflict(
			entsql.ConflictColumns("student_id", "activity_id"),
			entsql.DoNothing(),
		).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("insert activity %s: %w", a.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return activity.E(activity.KindConflict, op, "activity %q already stored for student %q", a.ID, studentID)
	}
	return nil
}

func (r *activityRepo) Get(ctx context.Context, studentID, activityID string) (*activity.Activity, error) {
	q, args := builder().Select(activityColumns...).
		From(builder().Table(tableActivities)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("activity_id", activityID),
		)).
		Query()
	a, err := scanActivity(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, activity.E(activity.KindNotFound, "store.activity.get", "activity %q not found for student %q", activityID, studentID)
	}
	if err != nil {
		return nil, fmt.Errorf("load activity %s: %w", activityID, err)
	}
	return a, nil
}

func (r *activityRepo) Move(ctx context.Context, studentID, activityID string, from, to activity.State, at time.Time) error {
	q, args := builder().Update(tableActivities).
		Set("state", string(to)).
		Set("timestamp", at.UTC()).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("activity_id", activityID),
			entsql.EQ("state", string(from)),
		)).
		Query()
	return r.execOne(ctx, q, args, "store.activity.move", activityID, studentID, from)
}

func (r *activityRepo) Delete(ctx context.Context, studentID, activityID string, state activity.State) error {
	q, args := builder().Delete(tableActivities).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("activity_id", activityID),
			entsql.EQ("state", string(state)),
		)).
		Query()
	return r.execOne(ctx, q, args, "store.activity.delete", activityID, studentID, state)
}

// execOne runs a statement that must touch exactly one row.
func (r *activityRepo) execOne(ctx context.Context, q string, args []any, op, activityID, studentID string, state activity.State) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, activityID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, activityID, err)
	}
	if n == 0 {
		return activity.E(activity.KindNotFound, op, "no %s activity %q for student %q", state, activityID, studentID)
	}
	return nil
}

func (r *activityRepo) List(ctx context.Context, studentID string, state activity.State, limit int) ([]activity.Activity, error) {
	sel := builder().Select(activityColumns...).
		From(builder().Table(tableActivities)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("state", string(state)),
		)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s activities: %w", state, err)
	}
	defer rows.Close()

	var out []activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanActivity(row rowScanner) (*activity.Activity, error) {
	var (
		a                                             activity.Activity
		state, source                                 string
		skills, materials, steps, outcomes, safetyTip []byte
	)
	err := row.Scan(&a.ID, &a.StudentID, &state, &a.Title, &a.Rationale, &a.Notes,
		&a.Theme, &source, &skills, &materials, &steps, &outcomes, &safetyTip, &a.Timestamp)
	if err != nil {
		return nil, err
	}
	a.State = activity.State(state)
	a.Source = activity.Source(source)

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{skills, &a.Skills},
		{materials, &a.Materials},
		{steps, &a.Steps},
		{outcomes, &a.Outcomes},
		{safetyTip, &a.SafetyTips},
	} {
		if err := unmarshalJSON(col.raw, col.dst); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
