package skills

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sproutcare/sprout/internal/activity"
)

type rawShape int

const (
	shapeNone rawShape = iota
	shapeObjects
	shapePairs
	shapeText
)

// Input is one {name, category} object as supplied by a caller or generator.
type Input struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Raw is skill input in one of the three accepted shapes: a list of
// objects, a list of "category: name" strings, or one free-text string.
// The zero value holds no skills.
type Raw struct {
	shape   rawShape
	objects []Input
	pairs   []string
	text    string
}

// FromObjects wraps a list of {name, category} objects.
func FromObjects(in ...Input) Raw { return Raw{shape: shapeObjects, objects: in} }

// FromPairs wraps a list of "category: name" strings.
func FromPairs(in ...string) Raw { return Raw{shape: shapePairs, pairs: in} }

// FromText wraps free text such as "Cognitive: counting, sorting; Physical: balance".
func FromText(s string) Raw { return Raw{shape: shapeText, text: s} }

// FromSkills wraps already canonical skills so they pass back through Normalize.
func FromSkills(in []activity.Skill) Raw {
	objs := make([]Input, len(in))
	for i, s := range in {
		objs[i] = Input{Name: s.Name, Category: string(s.Category)}
	}
	return FromObjects(objs...)
}

// UnmarshalJSON accepts any of the three shapes. Arrays may mix strings and
// objects; each element is judged on its own.
func (r *Raw) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*r = Raw{}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = FromText(s)
		return nil
	case b[0] == '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(b, &elems); err != nil {
			return err
		}
		var objs []Input
		for _, e := range elems {
			e = bytes.TrimSpace(e)
			if len(e) > 0 && e[0] == '"' {
				var s string
				if err := json.Unmarshal(e, &s); err != nil {
					return err
				}
				in, err := parsePair(s)
				if err != nil {
					// Keep the raw entry so Normalize reports it with the right kind.
					in = Input{Name: s}
				}
				objs = append(objs, in)
				continue
			}
			var in Input
			if err := json.Unmarshal(e, &in); err != nil {
				return fmt.Errorf("skill entry: %w", err)
			}
			objs = append(objs, in)
		}
		*r = FromObjects(objs...)
		return nil
	default:
		return fmt.Errorf("skills: unsupported JSON shape starting with %q", b[0])
	}
}

// MarshalJSON always emits the canonical object list.
func (r Raw) MarshalJSON() ([]byte, error) {
	entries, err := r.entries()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Input{}
	}
	return json.Marshal(entries)
}

// entries flattens the raw shape into objects without validating categories.
func (r Raw) entries() ([]Input, error) {
	switch r.shape {
	case shapeObjects:
		return r.objects, nil
	case shapePairs:
		out := make([]Input, 0, len(r.pairs))
		for _, p := range r.pairs {
			in, err := parsePair(p)
			if err != nil {
				return nil, err
			}
			out = append(out, in)
		}
		return out, nil
	case shapeText:
		return parseText(r.text)
	default:
		return nil, nil
	}
}

// Normalize converts raw input to the canonical ordered skill list.
// Duplicate (name, category) pairs collapse to their first occurrence.
// It fails with KindInvalidCategory for any category outside the taxonomy
// and with KindEmptySkillSet when nothing remains.
func Normalize(r Raw) ([]activity.Skill, error) {
	const op = "skills.normalize"

	entries, err := r.entries()
	if err != nil {
		return nil, &activity.Error{Kind: activity.KindInvalidCategory, Op: op, Err: err}
	}

	seen := make(map[activity.Skill]bool, len(entries))
	out := make([]activity.Skill, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" && strings.TrimSpace(e.Category) == "" {
			continue
		}
		cat, ok := LookupCategory(e.Category)
		if !ok {
			return nil, activity.E(activity.KindInvalidCategory, op,
				"skill %q has unknown category %q", name, e.Category)
		}
		if name == "" {
			continue
		}
		s := activity.Skill{Name: name, Category: cat}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	if len(out) == 0 {
		return nil, &activity.Error{Kind: activity.KindEmptySkillSet, Op: op, Msg: "no skills"}
	}
	return out, nil
}

// Validate re-checks canonical skills; used before save and discard.
func Validate(in []activity.Skill) ([]activity.Skill, error) {
	return Normalize(FromSkills(in))
}

// parsePair splits "category: name". A missing separator is an
// invalid-category failure because no category was named.
func parsePair(s string) (Input, error) {
	cat, name, ok := strings.Cut(s, ":")
	if !ok {
		return Input{}, fmt.Errorf("skill %q has no category", strings.TrimSpace(s))
	}
	return Input{Name: strings.TrimSpace(name), Category: strings.TrimSpace(cat)}, nil
}

// parseText splits on newlines and semicolons; each segment is
// "Category: name[, name...]".
func parseText(s string) ([]Input, error) {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	var out []Input
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		head, err := parsePair(seg)
		if err != nil {
			return nil, err
		}
		for _, name := range strings.Split(head.Name, ",") {
			out = append(out, Input{Name: strings.TrimSpace(name), Category: head.Category})
		}
	}
	return out, nil
}
