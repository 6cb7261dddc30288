package skills

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sproutcare/sprout/internal/activity"
)

func TestCategories_ClosedSetOfNine(t *testing.T) {
	cats := Categories()
	if len(cats) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !IsValid(c) {
			t.Errorf("category %q should be valid", c)
		}
	}
	if IsValid("Other") {
		t.Error("Other must not be a category")
	}
}

func TestLookupCategory_Folding(t *testing.T) {
	tests := []struct {
		in   string
		want activity.Category
		ok   bool
	}{
		{"Cognitive", activity.CategoryCognitive, true},
		{"cognitive", activity.CategoryCognitive, true},
		{" social emotional ", activity.CategorySocialEmotional, true},
		{"social_emotional", activity.CategorySocialEmotional, true},
		{"life-skills", activity.CategoryLifeSkills, true},
		{"Other", "", false},
		{"Motor", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := LookupCategory(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("LookupCategory(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalize_Objects(t *testing.T) {
	got, err := Normalize(FromObjects(
		Input{Name: "counting", Category: "mathematics"},
		Input{Name: "balance", Category: "Physical"},
		Input{Name: "counting", Category: "Mathematics"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []activity.Skill{
		{Name: "counting", Category: activity.CategoryMathematics},
		{Name: "balance", Category: activity.CategoryPhysical},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d skills, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skill %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalize_Pairs(t *testing.T) {
	got, err := Normalize(FromPairs("Language: storytelling", "Creative : drawing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Category != activity.CategoryCreative || got[1].Name != "drawing" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestNormalize_FreeText(t *testing.T) {
	got, err := Normalize(FromText("Cognitive: sorting, matching; Sensory: texture\nPhysical: jumping"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 skills, got %d: %+v", len(got), got)
	}
	if got[0].Name != "sorting" || got[1].Name != "matching" || got[1].Category != activity.CategoryCognitive {
		t.Errorf("unexpected split: %+v", got)
	}
}

func TestNormalize_UnknownCategoryRejected(t *testing.T) {
	cases := []Raw{
		FromObjects(Input{Name: "juggling", Category: "Other"}),
		FromPairs("Circus: juggling"),
		FromPairs("juggling"),
		FromText("just some words"),
		FromObjects(Input{Name: "", Category: "Bogus"}, Input{Name: "sorting", Category: "Cognitive"}),
		FromObjects(Input{Name: "sorting", Category: "Cognitive"}, Input{Name: "  ", Category: "Bogus"}),
	}
	for i, r := range cases {
		_, err := Normalize(r)
		if !errors.Is(err, activity.ErrInvalidCategory) {
			t.Errorf("case %d: expected invalid category, got %v", i, err)
		}
	}
}

func TestNormalize_EmptyRejected(t *testing.T) {
	cases := []Raw{
		{},
		FromObjects(),
		FromObjects(Input{Name: "  ", Category: "Cognitive"}),
		FromObjects(Input{Name: "", Category: ""}),
		FromText(""),
	}
	for i, r := range cases {
		_, err := Normalize(r)
		if activity.KindOf(err) != activity.KindEmptySkillSet {
			t.Errorf("case %d: expected empty skill set, got %v", i, err)
		}
	}
}

func TestRaw_UnmarshalJSONShapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"objects", `[{"name":"rhyming","category":"Language"}]`, 1},
		{"pairs", `["Science: observing","Mathematics: measuring"]`, 2},
		{"mixed", `["Science: observing",{"name":"hopping","category":"physical"}]`, 2},
		{"text", `"Creative: painting, collage"`, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var r Raw
			if err := json.Unmarshal([]byte(tc.json), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, err := Normalize(r)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("got %d skills, want %d", len(got), tc.want)
			}
		})
	}
}

func TestRaw_UnmarshalJSONPairWithoutCategory(t *testing.T) {
	var r Raw
	if err := json.Unmarshal([]byte(`["hopping"]`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := Normalize(r); activity.KindOf(err) != activity.KindInvalidCategory {
		t.Fatalf("expected invalid category, got %v", err)
	}
}

func TestValidate_CanonicalRoundTrip(t *testing.T) {
	in := []activity.Skill{{Name: "sharing", Category: activity.CategorySocialEmotional}}
	got, err := Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != in[0] {
		t.Errorf("got %+v, want %+v", got[0], in[0])
	}

	if _, err := Validate(nil); !errors.Is(err, activity.ErrEmptySkillSet) {
		t.Errorf("expected empty skill set for nil, got %v", err)
	}
}
