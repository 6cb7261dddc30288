package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	studentKey contextKey = "llm_student"
)

// PurposeSuggest labels activity suggestion requests.
const PurposeSuggest = "activity-suggest"

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithStudent attaches the student id a request is made for.
func WithStudent(ctx context.Context, studentID string) context.Context {
	return context.WithValue(ctx, studentKey, studentID)
}

// StudentFrom extracts the student id, or "".
func StudentFrom(ctx context.Context) string {
	v, _ := ctx.Value(studentKey).(string)
	return v
}
