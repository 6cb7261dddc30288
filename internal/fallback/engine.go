// Package fallback generates activities locally when the external
// generator is unavailable. Generation is deterministic for a given random
// source and never fails: when every template is excluded it synthesizes a
// combined activity whose title cannot collide with a template.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/sproutcare/sprout/internal/activity"
)

// Rand is the randomness source used to pick among candidates.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// minMatchLen is the shortest first word or title used for near-duplicate
// matching; shorter fragments match too much.
const minMatchLen = 4

// Request is the input to one fallback generation.
type Request struct {
	Student            activity.StudentContext
	Supervision        Supervision
	Outdoor            bool
	AvailableMaterials []string

	// Exclusions is the session's exclusion set.
	Exclusions map[string]struct{}
}

// Result is a generated activity plus how it was produced.
type Result struct {
	Activity activity.Activity
	Band     AgeBand

	// Synthesized is set when no template survived filtering. Callers
	// should surface it as lower quality than a template match.
	Synthesized bool
}

// Engine is the fallback rule engine.
type Engine struct {
	catalog *Catalog
	rnd     Rand
	newID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rnd = r } }

// WithCatalog replaces the embedded template catalog.
func WithCatalog(c *Catalog) Option { return func(e *Engine) { e.catalog = c } }

// WithIDFunc replaces activity id generation.
func WithIDFunc(f func() string) Option { return func(e *Engine) { e.newID = f } }

// New creates an Engine over the embedded catalog.
func New(opts ...Option) *Engine {
	e := &Engine{rnd: globalRand{}, newID: uuid.NewString}
	for _, o := range opts {
		o(e)
	}
	if e.catalog == nil {
		e.catalog = DefaultCatalog()
	}
	return e
}

// Generate returns exactly one activity whose title is not in req.Exclusions.
func (e *Engine) Generate(req Request) Result {
	band := BandForAge(req.Student.Age)

	cands := e.catalog.Materialize(band, req.Supervision, req.Student.Name)
	cands = eligible(cands, req.Supervision)
	open := withoutExcluded(cands, req.Exclusions)

	if len(open) > 0 {
		c := e.pick(open, req.Outdoor)
		return Result{Activity: e.fromCandidate(c, req), Band: band}
	}
	return Result{Activity: e.synthesize(band, cands, req), Band: band, Synthesized: true}
}

// eligible drops templates that are unsafe for unsupervised play when the
// adult is not involved.
func eligible(cands []Candidate, sup Supervision) []Candidate {
	if sup != SupervisionNone {
		return cands
	}
	out := cands[:0:0]
	for _, c := range cands {
		if c.SafeForIndependentPlay {
			out = append(out, c)
		}
	}
	return out
}

func withoutExcluded(cands []Candidate, excl map[string]struct{}) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if !NearDuplicate(c.Title, excl) {
			out = append(out, c)
		}
	}
	return out
}

// NearDuplicate reports whether title matches the exclusion set exactly,
// by case-insensitive substring in either direction, or by sharing its
// first word. The looser match catches the same idea phrased for another
// age band.
func NearDuplicate(title string, excl map[string]struct{}) bool {
	if _, ok := excl[title]; ok {
		return true
	}
	lt := strings.ToLower(strings.TrimSpace(title))
	fw := firstWord(lt)
	for x := range excl {
		lx := strings.ToLower(strings.TrimSpace(x))
		if len(lx) >= minMatchLen && strings.Contains(lt, lx) {
			return true
		}
		if len(lt) >= minMatchLen && strings.Contains(lx, lt) {
			return true
		}
		if len(fw) >= minMatchLen && firstWord(lx) == fw {
			return true
		}
	}
	return false
}

func firstWord(s string) string {
	f := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// pick prefers a nature template outdoors, otherwise chooses uniformly.
func (e *Engine) pick(cands []Candidate, outdoor bool) Candidate {
	if outdoor {
		var nature []Candidate
		for _, c := range cands {
			if c.Theme == ThemeNature {
				nature = append(nature, c)
			}
		}
		if len(nature) > 0 {
			return nature[e.rnd.IntN(len(nature))]
		}
	}
	return cands[e.rnd.IntN(len(cands))]
}

func (e *Engine) fromCandidate(c Candidate, req Request) activity.Activity {
	outdoor := req.Outdoor || c.Outdoor
	return activity.Activity{
		ID:         e.newID(),
		Title:      c.Title,
		Rationale:  c.Rationale,
		Skills:     append([]activity.Skill(nil), c.Skills...),
		Notes:      backupNote(c.Band, c.Supervision),
		Theme:      c.ThemeLabel,
		Steps:      c.Steps,
		Materials:  chooseMaterials(req.AvailableMaterials, c.Materials, c.Band, c.Supervision),
		Outcomes:   Outcomes(c.Theme, c.Band, c.Supervision),
		SafetyTips: SafetyTips(c.Band, c.Supervision, outdoor),
		Source:     activity.SourceFallbackTemplate,
		State:      activity.StateSuggested,
	}
}

// synthesize combines the opening of two eligible templates, ignoring
// exclusions, under a title built from the student's personality.
func (e *Engine) synthesize(band AgeBand, pool []Candidate, req Request) activity.Activity {
	title := synthTitle(req.Student.Personality, req.Exclusions)

	var steps []string
	var skills []activity.Skill
	seen := make(map[activity.Skill]bool)
	themes := make([]string, 0, 2)
	for _, c := range e.pickDistinctThemes(pool, 2) {
		themes = append(themes, c.ThemeLabel)
		body := c.Steps
		if c.lead[c.Supervision] != "" {
			body = body[1:]
		}
		steps = append(steps, body[0])
		for _, s := range c.Skills {
			if !seen[s] {
				seen[s] = true
				skills = append(skills, s)
			}
		}
	}
	if len(req.Student.Interests) > 0 {
		steps = append(steps, fmt.Sprintf("Bring in something about %s and connect it to what you made or found.", req.Student.Interests[0]))
	}
	steps = append(steps, "Share what you did and choose one thing to try differently next time.")

	if len(skills) == 0 {
		skills = []activity.Skill{
			{Name: "creative problem solving", Category: activity.CategoryCognitive},
			{Name: "imagination", Category: activity.CategoryCreative},
		}
	}

	rationale := "A new mix of familiar activities keeps practice fresh when the usual ideas have been used."
	if len(themes) == 2 {
		rationale = fmt.Sprintf("Combines %s and %s so practice stays fresh when the usual ideas have been used.",
			strings.ToLower(themes[0]), strings.ToLower(themes[1]))
	}

	return activity.Activity{
		ID:         e.newID(),
		Title:      title,
		Rationale:  rationale,
		Skills:     skills,
		Notes:      backupNote(band, req.Supervision) + "; combined activity, no template matched",
		Theme:      "Combination",
		Steps:      steps,
		Materials:  chooseMaterials(req.AvailableMaterials, nil, band, req.Supervision),
		Outcomes:   Outcomes("", band, req.Supervision),
		SafetyTips: SafetyTips(band, req.Supervision, req.Outdoor),
		Source:     activity.SourceFallbackSynthesized,
		State:      activity.StateSuggested,
	}
}

// pickDistinctThemes returns up to n candidates with different themes.
func (e *Engine) pickDistinctThemes(pool []Candidate, n int) []Candidate {
	byTheme := make(map[string][]Candidate)
	var order []string
	for _, c := range pool {
		if _, ok := byTheme[c.Theme]; !ok {
			order = append(order, c.Theme)
		}
		byTheme[c.Theme] = append(byTheme[c.Theme], c)
	}
	var out []Candidate
	for len(out) < n && len(order) > 0 {
		i := e.rnd.IntN(len(order))
		group := byTheme[order[i]]
		out = append(out, group[e.rnd.IntN(len(group))])
		order = append(order[:i], order[i+1:]...)
	}
	return out
}

// synthTitle builds "<Descriptor> Explorer's Unique Combination" and adds a
// counter until the title is not excluded.
func synthTitle(personality string, excl map[string]struct{}) string {
	base := descriptor(personality) + " Explorer's " + synthMarker
	title := base
	for n := 2; ; n++ {
		if _, ok := excl[title]; !ok {
			return title
		}
		title = fmt.Sprintf("%s #%d", base, n)
	}
}

// descriptor takes the first word of the personality text, capitalized.
func descriptor(personality string) string {
	w := firstWord(strings.ToLower(personality))
	if w == "" {
		return "Young"
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func backupNote(b AgeBand, s Supervision) string {
	return fmt.Sprintf("%s (%s, supervision: %s)", activity.BackupNote, b, s)
}
