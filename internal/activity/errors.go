package activity

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Callers branch on the kind, not the message.
type Kind int

const (
	KindUnknown Kind = iota

	// KindMissingPrecondition means the student is not ready for the
	// operation, e.g. no fully populated recent activity.
	KindMissingPrecondition

	// KindEmptySkillSet means an activity has no skills after normalization.
	KindEmptySkillSet

	// KindInvalidCategory means a skill names a category outside the taxonomy.
	KindInvalidCategory

	// KindGeneratorUnavailable means the external generator timed out or
	// produced output that does not conform. Recovered by the fallback engine.
	KindGeneratorUnavailable

	// KindNotFound means the referenced activity or student does not exist
	// for the scoped student.
	KindNotFound

	// KindConflict means the activity id is already persisted for the student.
	KindConflict

	// KindInvalid means the caller supplied malformed input.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindMissingPrecondition:
		return "missing-precondition"
	case KindEmptySkillSet:
		return "empty-skill-set"
	case KindInvalidCategory:
		return "invalid-category"
	case KindGeneratorUnavailable:
		return "generator-unavailable"
	case KindNotFound:
		return "not-found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every domain operation.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "lifecycle.restore"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare sentinel of the same kind, so that
// errors.Is(err, activity.ErrNotFound) works for any *Error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrMissingPrecondition  = &Error{Kind: KindMissingPrecondition}
	ErrEmptySkillSet        = &Error{Kind: KindEmptySkillSet}
	ErrInvalidCategory      = &Error{Kind: KindInvalidCategory}
	ErrGeneratorUnavailable = &Error{Kind: KindGeneratorUnavailable}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrConflict             = &Error{Kind: KindConflict}
	ErrInvalid              = &Error{Kind: KindInvalid}
)

// E builds an *Error with a formatted message.
func E(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
