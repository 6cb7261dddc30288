package fallback

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/sproutcare/sprout/internal/activity"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEngine(seed uint64) *Engine {
	return New(WithRand(rand.New(rand.NewPCG(seed, 2))), WithIDFunc(seqIDs()))
}

func student(age int) activity.StudentContext {
	return activity.StudentContext{
		Name:        "Maya",
		Age:         age,
		Personality: "curious and energetic",
		Interests:   []string{"dinosaurs"},
	}
}

func allTitles(c *Catalog) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range c.Templates() {
		out[t.Title] = struct{}{}
	}
	return out
}

func TestGenerateNeverFails(t *testing.T) {
	excl := allTitles(DefaultCatalog())
	// Also block the first few synthesized titles.
	for _, p := range []string{"Curious", "Young"} {
		base := p + " Explorer's " + synthMarker
		excl[base] = struct{}{}
		for n := 2; n < 5; n++ {
			excl[fmt.Sprintf("%s #%d", base, n)] = struct{}{}
		}
	}

	e := newTestEngine(1)
	for _, band := range AllBands() {
		for _, sup := range AllSupervision() {
			for _, outdoor := range []bool{false, true} {
				name := fmt.Sprintf("%s/%s/outdoor=%v", band, sup, outdoor)
				t.Run(name, func(t *testing.T) {
					res := e.Generate(Request{
						Student:     student(int(band) + youngestAge),
						Supervision: sup,
						Outdoor:     outdoor,
						Exclusions:  excl,
					})
					a := res.Activity
					if _, ok := excl[a.Title]; ok {
						t.Fatalf("title %q is excluded", a.Title)
					}
					if !res.Synthesized {
						t.Fatalf("expected synthesized activity with every template excluded, got %q", a.Title)
					}
					if a.Source != activity.SourceFallbackSynthesized {
						t.Errorf("Source = %s, want %s", a.Source, activity.SourceFallbackSynthesized)
					}
					if len(a.Skills) == 0 || len(a.Steps) == 0 {
						t.Errorf("synthesized activity is incomplete: %+v", a)
					}
					if !strings.Contains(a.Notes, activity.BackupNote) {
						t.Errorf("Notes = %q, want backup marker", a.Notes)
					}
				})
			}
		}
	}
}

func TestGenerateUniqueUnderGrowingExclusions(t *testing.T) {
	e := newTestEngine(7)
	excl := make(map[string]struct{})
	for i := 0; i < 60; i++ {
		res := e.Generate(Request{
			Student:     student(5),
			Supervision: SupervisionMinimal,
			Exclusions:  excl,
		})
		if _, dup := excl[res.Activity.Title]; dup {
			t.Fatalf("round %d: repeated title %q", i, res.Activity.Title)
		}
		excl[res.Activity.Title] = struct{}{}
	}
}

func TestOutdoorFallsBackToOtherThemes(t *testing.T) {
	excl := map[string]struct{}{
		"Nature Treasure Hunt": {},
		"Leaf Collection Walk": {},
		"Backyard Bug Safari":  {},
	}
	for seed := uint64(0); seed < 20; seed++ {
		e := newTestEngine(seed)
		res := e.Generate(Request{
			Student:     student(4),
			Supervision: SupervisionNone,
			Outdoor:     true,
			Exclusions:  excl,
		})
		if res.Band != Band4to5 {
			t.Fatalf("band = %s, want %s", res.Band, Band4to5)
		}
		if res.Synthesized {
			t.Fatalf("seed %d: synthesized although non-nature templates remain", seed)
		}
		a := res.Activity
		if a.Theme == "Nature Exploration" {
			t.Fatalf("seed %d: got nature template %q", seed, a.Title)
		}
		if _, ok := excl[a.Title]; ok {
			t.Fatalf("seed %d: excluded title %q returned", seed, a.Title)
		}
		if a.Source != activity.SourceFallbackTemplate {
			t.Errorf("Source = %s", a.Source)
		}
	}
}

func TestOutdoorPrefersNature(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		res := newTestEngine(seed).Generate(Request{
			Student:     student(6),
			Supervision: SupervisionMinimal,
			Outdoor:     true,
		})
		if res.Activity.Theme != "Nature Exploration" {
			t.Fatalf("seed %d: theme = %q, want nature", seed, res.Activity.Theme)
		}
	}
}

func TestNoSupervisionSkipsUnsafeTemplates(t *testing.T) {
	unsafe := make(map[string]bool)
	for _, tpl := range DefaultCatalog().Templates() {
		if !tpl.SafeForIndependentPlay {
			unsafe[tpl.Title] = true
		}
	}
	if len(unsafe) == 0 {
		t.Fatal("catalog has no supervised-only templates")
	}
	for seed := uint64(0); seed < 100; seed++ {
		res := newTestEngine(seed).Generate(Request{
			Student:     student(2),
			Supervision: SupervisionNone,
		})
		if unsafe[res.Activity.Title] {
			t.Fatalf("seed %d: unsupervised request got %q", seed, res.Activity.Title)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	req := Request{
		Student:     student(7),
		Supervision: SupervisionFull,
		Exclusions:  map[string]struct{}{"Comic Strip Workshop": {}},
	}
	a := New(WithRand(rand.New(rand.NewPCG(1, 2))), WithIDFunc(seqIDs())).Generate(req)
	b := New(WithRand(rand.New(rand.NewPCG(1, 2))), WithIDFunc(seqIDs())).Generate(req)
	if a.Activity.Title != b.Activity.Title || a.Activity.ID != b.Activity.ID {
		t.Fatalf("same seed gave %q and %q", a.Activity.Title, b.Activity.Title)
	}
	if strings.Join(a.Activity.Steps, "|") != strings.Join(b.Activity.Steps, "|") {
		t.Fatal("same seed gave different steps")
	}
}

func TestMaterialsPreference(t *testing.T) {
	e := newTestEngine(3)
	res := e.Generate(Request{
		Student:            student(5),
		Supervision:        SupervisionMinimal,
		AvailableMaterials: []string{" tape ", "boxes", "Tape", ""},
	})
	got := res.Activity.Materials
	if len(got) != 2 || got[0] != "tape" || got[1] != "boxes" {
		t.Fatalf("Materials = %v, want [tape boxes]", got)
	}

	res = e.Generate(Request{Student: student(5), Supervision: SupervisionMinimal})
	if len(res.Activity.Materials) == 0 {
		t.Fatal("expected template or default materials")
	}
}

func TestStepsUseNameAndLead(t *testing.T) {
	res := newTestEngine(4).Generate(Request{
		Student:     student(3),
		Supervision: SupervisionFull,
	})
	steps := strings.Join(res.Activity.Steps, "\n")
	if strings.Contains(steps, "{name}") || strings.Contains(steps, "{minutes}") {
		t.Fatalf("unrendered placeholders in %q", steps)
	}
	if len(res.Activity.Steps) < 2 {
		t.Fatalf("expected lead plus steps, got %v", res.Activity.Steps)
	}
}

func TestSafetyTipsByBand(t *testing.T) {
	young := SafetyTips(Band2to3, SupervisionNone, true)
	if !containsSub(young, "choking") {
		t.Errorf("young band tips missing choking warning: %v", young)
	}
	if !containsSub(young, "weather") {
		t.Errorf("outdoor tips missing weather note: %v", young)
	}
	old := SafetyTips(Band9to10, SupervisionFull, false)
	if containsSub(old, "choking") {
		t.Errorf("older band should not get choking warning: %v", old)
	}
}

func TestNearDuplicate(t *testing.T) {
	excl := map[string]struct{}{
		"Nature Treasure Hunt": {},
		"Art":                  {},
		"Marble Run":           {},
	}
	tests := []struct {
		title string
		want  bool
	}{
		{"Nature Treasure Hunt", true},
		{"nature treasure hunt", true},
		{"Nature Journal Expedition", true},
		{"Marble Run Design", true},
		{"Sticker Mosaic Art", false},
		{"Block Tower Challenge", false},
	}
	for _, tt := range tests {
		if got := NearDuplicate(tt.title, excl); got != tt.want {
			t.Errorf("NearDuplicate(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestSynthTitleCounter(t *testing.T) {
	excl := map[string]struct{}{
		"Young Explorer's Unique Combination":    {},
		"Young Explorer's Unique Combination #2": {},
	}
	if got := synthTitle("", excl); got != "Young Explorer's Unique Combination #3" {
		t.Fatalf("synthTitle = %q", got)
	}
	if got := synthTitle("  shy, thoughtful", nil); got != "Shy Explorer's Unique Combination" {
		t.Fatalf("synthTitle = %q", got)
	}
}

func containsSub(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
