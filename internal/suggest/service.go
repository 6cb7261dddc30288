// Package suggest runs one generation round: it composes a prompt from the
// student's context and the session's exclusion set, asks the external
// generator for a batch, and falls back to the local rule engine for
// anything the generator could not supply.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/fallback"
	"github.com/sproutcare/sprout/internal/llm"
	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/session"
	"github.com/sproutcare/sprout/internal/skills"
)

// StudentSource loads student documents.
type StudentSource interface {
	Get(ctx context.Context, studentID string) (*activity.Student, error)
}

// HistorySource lists a student's persisted activities, most recent first.
type HistorySource interface {
	List(ctx context.Context, studentID string, state activity.State, limit int) ([]activity.Activity, error)
}

// Deps are the collaborators of a Service. Provider may be nil, in which
// case every round is served by the fallback engine.
type Deps struct {
	Provider llm.Provider
	Engine   *fallback.Engine
	Students StudentSource
	History  HistorySource
	Log      *logging.Logger
}

// Options are the caller's choices for one round.
type Options struct {
	Supervision        fallback.Supervision
	Outdoor            bool
	AvailableMaterials []string

	// Count overrides Config.Count when positive.
	Count int
}

// Batch is the transient suggested batch returned by a round. Nothing in
// it is persisted.
type Batch struct {
	Activities []activity.Activity

	// Backup is set when at least one activity came from the fallback engine.
	Backup bool

	// Degraded is set when the fallback engine had to synthesize an
	// activity because every template was excluded.
	Degraded bool

	// Cause describes why the generator was not used, if it was not.
	Cause string
}

// Service generates suggestion batches.
type Service struct {
	provider llm.Provider
	engine   *fallback.Engine
	students StudentSource
	history  HistorySource
	cfg      Config
	log      *logging.Logger
	newID    func() string
}

// NewService creates a suggestion service.
func NewService(deps Deps, cfg Config) *Service {
	s := &Service{
		provider: deps.Provider,
		engine:   deps.Engine,
		students: deps.Students,
		history:  deps.History,
		cfg:      cfg,
		log:      deps.Log,
		newID:    uuid.NewString,
	}
	if s.engine == nil {
		s.engine = fallback.New()
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	return s
}

type batchOutput struct {
	Activities []activityOutput `json:"activities"`
}

type activityOutput struct {
	Title      string     `json:"title"`
	WhyItWorks string     `json:"why_it_works"`
	Skills     skills.Raw `json:"skills"`
	Notes      string     `json:"notes"`
}

// RequestSuggestions runs one round for the session's student. Generator
// failures never surface as errors: the batch is completed by the fallback
// engine and flagged. Errors are returned only for a missing student, a
// student without a complete recent activity, or a storage failure.
//
// Every returned title is recorded as shown before returning, so no later
// round in the same session can return it again.
func (s *Service) RequestSuggestions(ctx context.Context, sess *session.Session, opts Options) (*Batch, error) {
	const op = "suggest.request"
	if sess == nil || sess.StudentID == "" {
		return nil, activity.E(activity.KindInvalid, op, "session has no student")
	}

	student, err := s.students.Get(ctx, sess.StudentID)
	if err != nil {
		return nil, err
	}
	if err := student.ReadyForSuggestions(); err != nil {
		return nil, err
	}

	var history []activity.Activity
	if s.history != nil && s.cfg.MaxHistory > 0 {
		history, err = s.history.List(ctx, student.ID, activity.StateHistorical, s.cfg.MaxHistory)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		// oldest first
		for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
			history[i], history[j] = history[j], history[i]
		}
	}
	sc := student.Context(history, s.cfg.MaxHistory)

	want := opts.Count
	if want <= 0 {
		want = s.cfg.Count
	}
	if want <= 0 {
		want = 1
	}

	tracker := sess.Tracker()
	exchanges := sess.Exchanges()
	prompt, err := Compose(PromptInput{
		Student:     sc,
		Exclusions:  tracker.Titles(),
		Supervision: opts.Supervision,
		Outdoor:     opts.Outdoor,
		Materials:   opts.AvailableMaterials,
		Count:       want,
		FollowUp:    len(exchanges) > 0,
	})
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	excluded := tracker.ExclusionSet()

	reply, genErr := s.generate(ctx, sess, exchanges, prompt)
	if genErr == nil {
		batch.Activities, genErr = s.accept(reply, excluded, want)
	}
	if genErr != nil {
		reply = ""
		batch.Activities = nil
		batch.Cause = genErr.Error()
		s.log.Warn("suggestion generator unavailable, using fallback",
			"student_id", sess.StudentID, "session_id", sess.ID,
			"round", sess.Rounds()+1, "error", genErr)
	}

	for i := range batch.Activities {
		batch.Activities[i].StudentID = student.ID
		excluded[batch.Activities[i].Title] = struct{}{}
	}
	for len(batch.Activities) < want {
		res := s.engine.Generate(fallback.Request{
			Student:            sc,
			Supervision:        opts.Supervision,
			Outdoor:            opts.Outdoor,
			AvailableMaterials: opts.AvailableMaterials,
			Exclusions:         excluded,
		})
		a := res.Activity
		a.StudentID = student.ID
		excluded[a.Title] = struct{}{}
		batch.Activities = append(batch.Activities, a)
		batch.Backup = true
		if res.Synthesized {
			batch.Degraded = true
		}
	}

	if err := tracker.RecordShown(ctx, activity.Titles(batch.Activities)); err != nil {
		s.log.Warn("failed to persist shown titles", "session_id", sess.ID, "error", err)
	}
	sess.CompleteRound(prompt, reply)

	s.log.Debug("suggestion round complete",
		"student_id", sess.StudentID, "session_id", sess.ID, "round", sess.Rounds(),
		"count", len(batch.Activities), "backup", batch.Backup, "degraded", batch.Degraded)

	return batch, nil
}

// generate calls the external generator within the configured bounded wait.
// The returned error is always of kind GeneratorUnavailable.
func (s *Service) generate(ctx context.Context, sess *session.Session, exchanges []session.Exchange, prompt string) (string, error) {
	const op = "suggest.generate"
	if s.provider == nil {
		return "", &activity.Error{Kind: activity.KindGeneratorUnavailable, Op: op, Msg: "no generator configured"}
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithStudent(llm.WithPurpose(ctx, llm.PurposeSuggest), sess.StudentID)

	msgs := make([]llm.Message, 0, 2*len(exchanges)+1)
	for _, ex := range exchanges {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: ex.Prompt},
			llm.Message{Role: llm.RoleAssistant, Content: ex.Reply},
		)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    msgs,
		Schema:      BatchSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", &activity.Error{Kind: activity.KindGeneratorUnavailable, Op: op, Err: err}
	}
	return string(resp.Content), nil
}

// accept parses a generator reply into suggested activities. Any item that
// does not conform fails the whole reply. Titles already excluded or
// repeated within the reply are dropped, and at most want are kept.
func (s *Service) accept(reply string, excluded map[string]struct{}, want int) ([]activity.Activity, error) {
	const op = "suggest.accept"

	var out batchOutput
	if err := json.Unmarshal([]byte(reply), &out); err != nil {
		return nil, &activity.Error{Kind: activity.KindGeneratorUnavailable, Op: op, Msg: "parse batch", Err: err}
	}

	seen := make(map[string]bool, len(out.Activities))
	acts := make([]activity.Activity, 0, min(len(out.Activities), want))
	for i, item := range out.Activities {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, activity.E(activity.KindGeneratorUnavailable, op, "activity %d has no title", i+1)
		}
		sk, err := skills.Normalize(item.Skills)
		if err != nil {
			return nil, &activity.Error{Kind: activity.KindGeneratorUnavailable, Op: op,
				Msg: fmt.Sprintf("activity %q", title), Err: err}
		}
		if _, ok := excluded[title]; ok || seen[title] || len(acts) == want {
			continue
		}
		seen[title] = true
		acts = append(acts, activity.Activity{
			ID:        s.newID(),
			Title:     title,
			Rationale: strings.TrimSpace(item.WhyItWorks),
			Skills:    sk,
			Notes:     strings.TrimSpace(item.Notes),
			Source:    activity.SourceAI,
			State:     activity.StateSuggested,
		})
	}
	return acts, nil
}
