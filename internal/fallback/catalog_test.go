package fallback

import (
	"strings"
	"testing"
)

func TestDefaultCatalogCoverage(t *testing.T) {
	c := DefaultCatalog()
	for _, band := range AllBands() {
		for _, sup := range AllSupervision() {
			cands := eligible(c.Materialize(band, sup, ""), sup)
			if len(cands) == 0 {
				t.Errorf("%s/%s: no eligible templates", band, sup)
			}
		}
		var nature bool
		for _, cand := range c.Materialize(band, SupervisionNone, "") {
			if cand.Theme == ThemeNature && cand.SafeForIndependentPlay {
				nature = true
			}
		}
		if !nature {
			t.Errorf("%s: no independent nature template", band)
		}
	}
}

func TestDefaultCatalogTitles(t *testing.T) {
	for _, tpl := range DefaultCatalog().Templates() {
		if strings.Contains(tpl.Title, synthMarker) {
			t.Errorf("template %q uses the synthesized marker", tpl.Title)
		}
		if len(tpl.Skills) == 0 {
			t.Errorf("template %q has no skills", tpl.Title)
		}
		if tpl.ThemeLabel == "" {
			t.Errorf("template %q has no theme label", tpl.Title)
		}
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "reserved phrase",
			yaml: `
themes:
  - key: x
    skills: ["Creative: drawing"]
    variants:
      - bands: [0, 1]
        titles: ["My Unique Combination"]
        steps: ["draw"]
`,
			want: "reserved phrase",
		},
		{
			name: "duplicate title",
			yaml: `
themes:
  - key: x
    skills: ["Creative: drawing"]
    variants:
      - bands: [0, 1]
        titles: ["Draw", "Draw"]
        steps: ["draw"]
`,
			want: "duplicate title",
		},
		{
			name: "bad bands",
			yaml: `
themes:
  - key: x
    skills: ["Creative: drawing"]
    variants:
      - bands: [3, 9]
        titles: ["Draw"]
        steps: ["draw"]
`,
			want: "bad band range",
		},
		{
			name: "unknown skill category",
			yaml: `
themes:
  - key: x
    skills: ["Cooking: baking"]
    variants:
      - bands: [0, 1]
        titles: ["Bake"]
        steps: ["bake"]
`,
			want: "skills",
		},
		{
			name: "empty",
			yaml: `themes: []`,
			want: "no templates",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestMaterializeLead(t *testing.T) {
	c, err := ParseCatalog([]byte(`
themes:
  - key: x
    label: X
    skills: ["Creative: drawing"]
    lead:
      full: "Sit with {name}."
    variants:
      - bands: [0, 7]
        independent: true
        titles: ["Draw"]
        steps: ["Draw for {minutes} minutes."]
`))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	full := c.Materialize(Band2to3, SupervisionFull, "Leo")
	if len(full) != 1 || len(full[0].Steps) != 2 {
		t.Fatalf("unexpected candidates: %+v", full)
	}
	if full[0].Steps[0] != "Sit with Leo." || full[0].Steps[1] != "Draw for 10 minutes." {
		t.Fatalf("Steps = %q", full[0].Steps)
	}

	none := c.Materialize(Band3to4, SupervisionNone, "Leo")
	if len(none[0].Steps) != 1 || none[0].Steps[0] != "Draw for 13 minutes." {
		t.Fatalf("Steps = %q", none[0].Steps)
	}
}
