package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var generationColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "student_id",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder().Insert(tableGenerationEvents).
		Columns(generationColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.Provider,
			data.Model,
			data.Purpose,
			data.StudentID,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error) {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", opts.Purpose))
	}
	if opts.StudentID != "" {
		preds = append(preds, entsql.EQ("student_id", opts.StudentID))
	}

	sel := builder().Select(generationColumns...).
		From(builder().Table(tableGenerationEvents)).
		OrderBy(entsql.Desc("sequence"))
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEvent
	for rows.Next() {
		e, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetGeneration(ctx context.Context, id int) (*GenerationEvent, error) {
	q, args := builder().Select(generationColumns...).
		From(builder().Table(tableGenerationEvents)).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanGeneration(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get generation event %d: %w", id, err)
	}
	return e, nil
}

func (r *eventRepo) UsageByPurpose(ctx context.Context) ([]UsageStats, error) {
	return r.usage(ctx, "purpose", func(u *UsageStats) any { return &u.Purpose })
}

func (r *eventRepo) UsageByModel(ctx context.Context) ([]UsageStats, error) {
	return r.usage(ctx, "model", func(u *UsageStats) any { return &u.Model })
}

func (r *eventRepo) usage(ctx context.Context, key string, keyDst func(*UsageStats) any) ([]UsageStats, error) {
	q, args := builder().Select(
		key,
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(1 - `success`)", "failures"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		"CAST(AVG(`latency_ms`) AS INTEGER) AS `avg_latency_ms`",
	).
		From(builder().Table(tableGenerationEvents)).
		GroupBy(key).
		OrderBy(key).
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("usage by %s: %w", key, err)
	}
	defer rows.Close()

	var out []UsageStats
	for rows.Next() {
		var u UsageStats
		if err := rows.Scan(keyDst(&u), &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanGeneration(row rowScanner) (*GenerationEvent, error) {
	var e GenerationEvent
	err := row.Scan(
		&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.StudentID,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
