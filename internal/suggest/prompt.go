package suggest

import (
	"fmt"
	"strings"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/fallback"
)

const systemPrompt = `You are an experienced early-childhood educator planning short, hands-on learning activities for children at a daycare. Suggestions must be safe for the stated level of adult supervision, use simple materials, and build on what the child did recently.`

// PromptInput is everything the composer needs for one generation round.
type PromptInput struct {
	Student activity.StudentContext

	// Exclusions is the session's accumulated exclusion set in the order
	// titles were added.
	Exclusions []string

	Supervision fallback.Supervision
	Outdoor     bool
	Materials   []string
	Count       int

	// FollowUp selects the abbreviated prompt used once the student's
	// context has already been sent in this session.
	FollowUp bool
}

// Compose builds the user message for a generation round. It fails with
// KindMissingPrecondition when the student's recent activity is not fully
// populated, and never otherwise.
func Compose(in PromptInput) (string, error) {
	if err := in.Student.Ready(); err != nil {
		return "", err
	}
	if in.FollowUp {
		return composeFollowUp(in), nil
	}
	return composeFull(in), nil
}

func composeFull(in PromptInput) string {
	sc := in.Student
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Child: %s\n", sc.Name))
	b.WriteString(fmt.Sprintf("Age: %d (%s)\n", sc.Age, fallback.BandForAge(sc.Age)))
	if sc.Personality != "" {
		b.WriteString(fmt.Sprintf("Personality: %s\n", sc.Personality))
	}
	b.WriteString(fmt.Sprintf("Interests: %s\n", listOrNone(sc.Interests)))
	b.WriteString(fmt.Sprintf("Goals: %s\n", listOrNone(sc.Goals)))

	ra := sc.RecentActivity
	b.WriteString("\nRecent Activity:\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", ra.Name))
	b.WriteString(fmt.Sprintf("Result: %s\n", ra.Result))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", ra.Difficulty))
	b.WriteString(fmt.Sprintf("Observations: %s\n", ra.Observations))

	b.WriteString("\nPast Activities:\n")
	if len(sc.History) == 0 {
		b.WriteString("None\n")
	} else {
		for _, h := range sc.History {
			b.WriteString(fmt.Sprintf("- %s\n", h))
		}
	}

	writeSetting(&b, in)
	writeExclusions(&b, in.Exclusions)

	b.WriteString(fmt.Sprintf(`
Instructions:
Suggest exactly %d activities for this child:
1. Each activity must take 10-30 minutes and fit the supervision level and location above.
2. Build on the recent activity: if it was hard, step back; if it went well, stretch a little further.
3. Connect at least one activity to the child's interests and at least one to the goals.
4. Give every activity a distinct title that does not appear in the list of activities to avoid.
5. List 1-4 skills per activity. Each skill category must be exactly one of: %s.
6. Keep notes short and practical for the caregiver.`, count(in), categoryList()))

	return b.String()
}

func composeFollowUp(in PromptInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Suggest %d more activities for %s. Each must be different from every activity suggested so far.\n",
		count(in), in.Student.Name))
	writeSetting(&b, in)
	writeExclusions(&b, in.Exclusions)
	b.WriteString("\nUse the same format and skill categories as before.")

	return b.String()
}

func writeSetting(b *strings.Builder, in PromptInput) {
	b.WriteString("\nSetting:\n")
	b.WriteString(fmt.Sprintf("Supervision: %s\n", describeSupervision(in.Supervision)))
	if in.Outdoor {
		b.WriteString("Location: outdoors\n")
	} else {
		b.WriteString("Location: indoors\n")
	}
	if len(in.Materials) > 0 {
		b.WriteString(fmt.Sprintf("Available materials: %s\n", strings.Join(in.Materials, ", ")))
	}
}

func writeExclusions(b *strings.Builder, titles []string) {
	if len(titles) == 0 {
		return
	}
	b.WriteString("\nDo not suggest any of these activities again:\n")
	for _, t := range titles {
		b.WriteString(fmt.Sprintf("- %s\n", t))
	}
}

func describeSupervision(s fallback.Supervision) string {
	switch s {
	case fallback.SupervisionNone:
		return "none (the child plays independently)"
	case fallback.SupervisionMinimal:
		return "minimal (an adult stays nearby)"
	default:
		return "full (an adult takes part)"
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none given"
	}
	return strings.Join(items, ", ")
}

func count(in PromptInput) int {
	if in.Count <= 0 {
		return 1
	}
	return in.Count
}
