package activity

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RecentActivity is the last observed activity for a student. All four
// fields must be populated before suggestions can be requested.
type RecentActivity struct {
	Name         string `json:"name" validate:"required"`
	Result       string `json:"result" validate:"required"`
	Difficulty   string `json:"difficulty" validate:"required"`
	Observations string `json:"observations" validate:"required"`
}

// Student is the persisted student document, minus its activity collections.
type Student struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Age         int      `json:"age" validate:"gte=1,lte=18"`
	Personality string   `json:"personality"`
	Interests   []string `json:"interests"`
	Goals       []string `json:"goals"`

	RecentActivity *RecentActivity `json:"recent_activity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the document shape before it is stored.
func (s *Student) Validate() error {
	if err := validate.Struct(s); err != nil {
		return &Error{Kind: KindInvalid, Op: "student.validate", Msg: describeValidation(err)}
	}
	return nil
}

// ReadyForSuggestions fails with KindMissingPrecondition unless the
// student's recent activity is fully populated.
func (s *Student) ReadyForSuggestions() error {
	return checkRecent("student.ready", s.RecentActivity)
}

func checkRecent(op string, r *RecentActivity) error {
	if r == nil {
		return &Error{Kind: KindMissingPrecondition, Op: op, Msg: "recent activity is not set"}
	}
	if err := validate.Struct(r); err != nil {
		return &Error{Kind: KindMissingPrecondition, Op: op, Msg: "recent activity incomplete: " + describeValidation(err)}
	}
	return nil
}

// StudentContext is the read-only projection of a student's developmental
// fields used to compose prompts and drive the fallback engine.
type StudentContext struct {
	Name           string
	Age            int
	Personality    string
	Interests      []string
	Goals          []string
	RecentActivity *RecentActivity
	History        []string // titles of recent past activities, oldest first
}

// Ready applies the same recent-activity gate as Student.ReadyForSuggestions.
func (c StudentContext) Ready() error {
	return checkRecent("student.ready", c.RecentActivity)
}

// Context projects the student and up to maxHistory of the given historical
// activities (most recent kept).
func (s *Student) Context(history []Activity, maxHistory int) StudentContext {
	titles := Titles(history)
	if maxHistory > 0 && len(titles) > maxHistory {
		titles = titles[len(titles)-maxHistory:]
	}
	return StudentContext{
		Name:           s.Name,
		Age:            s.Age,
		Personality:    s.Personality,
		Interests:      append([]string(nil), s.Interests...),
		Goals:          append([]string(nil), s.Goals...),
		RecentActivity: s.RecentActivity,
		History:        titles,
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
