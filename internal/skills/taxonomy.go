// Package skills holds the closed skill taxonomy and the single
// normalization boundary that turns loosely shaped skill input into
// canonical activity.Skill values.
package skills

import (
	"strings"

	"github.com/sproutcare/sprout/internal/activity"
)

// categories is the closed set, in display order.
var categories = []activity.Category{
	activity.CategoryCognitive,
	activity.CategoryLanguage,
	activity.CategoryPhysical,
	activity.CategorySocialEmotional,
	activity.CategoryCreative,
	activity.CategoryMathematics,
	activity.CategoryScience,
	activity.CategorySensory,
	activity.CategoryLifeSkills,
}

// byKey indexes categories by their folded lookup key.
var byKey map[string]activity.Category

func init() {
	byKey = make(map[string]activity.Category, len(categories))
	for _, c := range categories {
		byKey[foldKey(string(c))] = c
	}
}

// Categories returns the closed category set in display order.
func Categories() []activity.Category {
	return append([]activity.Category(nil), categories...)
}

// LookupCategory resolves a category name. Case is ignored and spaces,
// hyphens and underscores are interchangeable; nothing else is coerced.
func LookupCategory(name string) (activity.Category, bool) {
	c, ok := byKey[foldKey(name)]
	return c, ok
}

// IsValid reports whether c is a member of the closed set.
func IsValid(c activity.Category) bool {
	got, ok := byKey[foldKey(string(c))]
	return ok && got == c
}

// foldKey lowercases and strips separators: "Social emotional" -> "socialemotional".
func foldKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '-', '_', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
