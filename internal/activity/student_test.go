package activity

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func fullRecent() *RecentActivity {
	return &RecentActivity{
		Name:         "Leaf sorting",
		Result:       "Sorted twelve leaves by colour",
		Difficulty:   "easy",
		Observations: "Asked for bigger leaves",
	}
}

func TestReadyForSuggestions(t *testing.T) {
	partial := fullRecent()
	partial.Observations = ""

	tests := []struct {
		name   string
		recent *RecentActivity
		want   Kind
		msg    string
	}{
		{"complete", fullRecent(), KindUnknown, ""},
		{"missing", nil, KindMissingPrecondition, "not set"},
		{"partial", partial, KindMissingPrecondition, "observations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Student{ID: "s1", Name: "Ada", Age: 4, RecentActivity: tt.recent}
			err := s.ReadyForSuggestions()
			ctxErr := s.Context(nil, 0).Ready()
			if tt.want == KindUnknown {
				if err != nil || ctxErr != nil {
					t.Fatalf("expected ready, got %v / %v", err, ctxErr)
				}
				return
			}
			if KindOf(err) != tt.want || KindOf(ctxErr) != tt.want {
				t.Fatalf("kinds = %v / %v, want %v", KindOf(err), KindOf(ctxErr), tt.want)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestStudentValidate(t *testing.T) {
	ok := &Student{ID: "s1", Name: "Ada", Age: 4}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid student rejected: %v", err)
	}

	bad := &Student{ID: "s1", Age: 0}
	err := bad.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, f := range []string{"name", "age"} {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("error %q does not mention %s", err, f)
		}
	}
}

func TestContextKeepsMostRecentHistory(t *testing.T) {
	s := &Student{Name: "Ada", Age: 5, Interests: []string{"bugs"}}
	var hist []Activity
	for i := 1; i <= 4; i++ {
		hist = append(hist, Activity{Title: fmt.Sprintf("Past %d", i)})
	}

	c := s.Context(hist, 2)
	if got := strings.Join(c.History, ","); got != "Past 3,Past 4" {
		t.Errorf("history = %q", got)
	}

	c.Interests[0] = "trains"
	if s.Interests[0] != "bugs" {
		t.Error("context shares the interests slice with the student")
	}
}

func TestErrorMatching(t *testing.T) {
	base := E(KindNotFound, "lifecycle.restore", "activity %s not discarded", "a1")
	wrapped := fmt.Errorf("restore: %w", base)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped not-found should match ErrNotFound")
	}
	if errors.Is(wrapped, ErrConflict) {
		t.Error("not-found should not match ErrConflict")
	}
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf = %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain errors have no kind")
	}
	if got := base.Error(); got != "lifecycle.restore: activity a1 not discarded" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("disk full")
	e := &Error{Kind: KindConflict, Op: "store.insert", Err: cause}
	if !errors.Is(e, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if got := e.Error(); got != "store.insert: conflict: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
