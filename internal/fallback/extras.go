package fallback

import (
	"fmt"
	"strings"
)

// defaultMaterials is used when neither the caller nor the template
// supplies materials. Indexed by band group, then supervision.
var defaultMaterials = [4][3][]string{
	// 2-4 years
	{
		{"soft blocks", "board books", "large crayons"},
		{"soft blocks", "large crayons", "paper", "basket of safe household items"},
		{"blocks", "crayons", "paper", "play dough"},
	},
	// 4-6 years
	{
		{"crayons", "paper", "building blocks"},
		{"washable markers", "paper", "blocks", "child-safe scissors"},
		{"markers", "child-safe scissors", "glue stick", "recycled boxes"},
	},
	// 6-8 years
	{
		{"notebook", "pencil", "colored pencils"},
		{"notebook", "pencil", "ruler", "tape", "recycled materials"},
		{"notebook", "pencil", "scissors", "tape", "measuring tools"},
	},
	// 8-10 years
	{
		{"notebook", "pencil", "ruler"},
		{"notebook", "pencil", "ruler", "reference books"},
		{"notebook", "pencil", "ruler", "reference books", "simple tools"},
	},
}

func bandGroup(b AgeBand) int {
	return int(b) / 2
}

// DefaultMaterials returns the fallback materials for a band and supervision level.
func DefaultMaterials(b AgeBand, s Supervision) []string {
	return append([]string(nil), defaultMaterials[bandGroup(b)][clampSupervision(s)]...)
}

func clampSupervision(s Supervision) int {
	if s < SupervisionNone || s > SupervisionFull {
		return int(SupervisionMinimal)
	}
	return int(s)
}

func chooseMaterials(available, template []string, b AgeBand, s Supervision) []string {
	if m := cleanList(available); len(m) > 0 {
		return m
	}
	if len(template) > 0 {
		return append([]string(nil), template...)
	}
	return DefaultMaterials(b, s)
}

func cleanList(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

var themeOutcomes = map[string]string{
	"nature":   "Notices and describes details in the natural world",
	"art":      "Expresses ideas and feelings through visual art",
	"building": "Plans, tests and improves a physical design",
	"reading":  "Understands and retells stories in their own words",
	"movement": "Strengthens coordination, balance and body awareness",
	"science":  "Makes predictions and checks them against results",
	"research": "Asks questions and gathers facts to answer them",
	"writing":  "Organizes ideas into a written story or poem",
}

var bandOutcomes = [4]string{
	"Builds vocabulary by naming what they see and do",
	"Practices following multi-step directions",
	"Develops focus for longer, self-guided tasks",
	"Reflects on their own work and sets a next goal",
}

var supervisionOutcomes = [3]string{
	"Grows independence and self-direction",
	"Practices checking in and asking for help when needed",
	"Strengthens connection through shared play and conversation",
}

// Outcomes returns the learning outcomes for a theme at a band and supervision level.
func Outcomes(theme string, b AgeBand, s Supervision) []string {
	var out []string
	if o, ok := themeOutcomes[theme]; ok {
		out = append(out, o)
	}
	out = append(out, bandOutcomes[bandGroup(b)], supervisionOutcomes[clampSupervision(s)])
	return out
}

// SafetyTips returns the safety guidance for a band and supervision level.
func SafetyTips(b AgeBand, s Supervision, outdoor bool) []string {
	var tips []string
	switch s {
	case SupervisionNone:
		tips = append(tips,
			"Choose a space the child already knows and that has been checked for hazards",
			"Set a timer so the child knows when to check back in")
	case SupervisionMinimal:
		tips = append(tips,
			"Stay within hearing distance",
			fmt.Sprintf("Check in about every %d minutes", b.minutes()))
	case SupervisionFull:
		tips = append(tips,
			"Handle any sharp tools yourself and let the child lead everything else")
	}
	if b.young() {
		tips = append(tips, "Keep small objects out of reach to avoid choking hazards")
	}
	if outdoor {
		tips = append(tips, "Dress for the weather and check the area for water, traffic or stinging insects")
	}
	return tips
}
