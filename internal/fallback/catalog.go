package fallback

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/skills"
)

//go:embed catalog/templates.yaml
var defaultCatalogYAML []byte

// ThemeNature is the theme preferred for outdoor requests.
const ThemeNature = "nature"

// synthMarker appears only in synthesized titles; catalog titles may not use it.
const synthMarker = "Unique Combination"

type catalogFile struct {
	Themes []themeSpec `yaml:"themes"`
}

type themeSpec struct {
	Key      string            `yaml:"key"`
	Label    string            `yaml:"label"`
	Outdoor  bool              `yaml:"outdoor"`
	Skills   []string          `yaml:"skills"`
	Lead     map[string]string `yaml:"lead"`
	Variants []variantSpec     `yaml:"variants"`
}

type variantSpec struct {
	Bands       []int    `yaml:"bands"`
	Independent bool     `yaml:"independent"`
	Titles      []string `yaml:"titles"`
	Rationale   string   `yaml:"rationale"`
	Steps       []string `yaml:"steps"`
	Materials   []string `yaml:"materials"`
}

// Template is one fixed fallback activity before it is materialized for a
// particular band and supervision level.
type Template struct {
	Theme                  string
	ThemeLabel             string
	Title                  string
	Rationale              string
	MinBand, MaxBand       AgeBand
	SafeForIndependentPlay bool
	Outdoor                bool
	Skills                 []activity.Skill
	Materials              []string

	lead  map[Supervision]string
	steps []string
}

// Candidate is a template materialized for one band and supervision level.
type Candidate struct {
	*Template
	Band        AgeBand
	Supervision Supervision
	Steps       []string
}

// Catalog holds every fallback template.
type Catalog struct {
	templates []*Template
}

// DefaultCatalog parses the embedded template catalog. The embedded file is
// validated by tests, so a failure here is a build defect.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("fallback: embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes and validates a YAML template catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{}
	seen := make(map[string]bool)
	for _, th := range f.Themes {
		if th.Key == "" {
			return nil, fmt.Errorf("theme without key")
		}
		sk, err := skills.Normalize(skills.FromPairs(th.Skills...))
		if err != nil {
			return nil, fmt.Errorf("theme %s skills: %w", th.Key, err)
		}
		lead, err := parseLead(th.Lead)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", th.Key, err)
		}
		for vi, v := range th.Variants {
			if len(v.Bands) != 2 {
				return nil, fmt.Errorf("theme %s variant %d: bands must be [lo, hi]", th.Key, vi)
			}
			lo, hi := v.Bands[0], v.Bands[1]
			if lo < 0 || hi >= numBands || lo > hi {
				return nil, fmt.Errorf("theme %s variant %d: bad band range %v", th.Key, vi, v.Bands)
			}
			if len(v.Steps) == 0 {
				return nil, fmt.Errorf("theme %s variant %d: no steps", th.Key, vi)
			}
			for _, title := range v.Titles {
				switch {
				case strings.TrimSpace(title) == "":
					return nil, fmt.Errorf("theme %s variant %d: empty title", th.Key, vi)
				case strings.Contains(title, synthMarker):
					return nil, fmt.Errorf("title %q uses reserved phrase %q", title, synthMarker)
				case seen[title]:
					return nil, fmt.Errorf("duplicate title %q", title)
				}
				seen[title] = true
				c.templates = append(c.templates, &Template{
					Theme:                  th.Key,
					ThemeLabel:             th.Label,
					Title:                  title,
					Rationale:              v.Rationale,
					MinBand:                AgeBand(lo),
					MaxBand:                AgeBand(hi),
					SafeForIndependentPlay: v.Independent,
					Outdoor:                th.Outdoor,
					Skills:                 sk,
					Materials:              v.Materials,
					lead:                   lead,
					steps:                  v.Steps,
				})
			}
		}
	}
	if len(c.templates) == 0 {
		return nil, fmt.Errorf("catalog has no templates")
	}
	return c, nil
}

func parseLead(in map[string]string) (map[Supervision]string, error) {
	out := make(map[Supervision]string, len(in))
	for k, v := range in {
		s, err := ParseSupervision(k)
		if err != nil {
			return nil, err
		}
		out[s] = v
	}
	return out, nil
}

// Templates returns every template in catalog order.
func (c *Catalog) Templates() []*Template {
	return append([]*Template(nil), c.templates...)
}

// Materialize returns the templates that apply to the band, with step text
// phrased for the supervision level and the student's name.
func (c *Catalog) Materialize(band AgeBand, sup Supervision, name string) []Candidate {
	var out []Candidate
	for _, t := range c.templates {
		if band < t.MinBand || band > t.MaxBand {
			continue
		}
		out = append(out, Candidate{
			Template:    t,
			Band:        band,
			Supervision: sup,
			Steps:       t.render(band, sup, name),
		})
	}
	return out
}

func (t *Template) render(band AgeBand, sup Supervision, name string) []string {
	if name == "" {
		name = "your child"
	}
	r := strings.NewReplacer(
		"{name}", name,
		"{minutes}", strconv.Itoa(band.minutes()),
	)
	steps := make([]string, 0, len(t.steps)+1)
	if lead := t.lead[sup]; lead != "" {
		steps = append(steps, r.Replace(lead))
	}
	for _, s := range t.steps {
		steps = append(steps, r.Replace(s))
	}
	return steps
}
