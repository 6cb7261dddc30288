package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/sproutcare/sprout/internal/activity"
)

// Activity is a persisted activity in one of a student's collections.
// Suggested activities are never stored.
type Activity struct {
	ent.Schema
}

func (Activity) Fields() []ent.Field {
	return []ent.Field{
		field.String("activity_id").
			NotEmpty(),
		field.String("student_id").
			NotEmpty(),
		field.Enum("state").
			Values(
				string(activity.StateSaved),
				string(activity.StateDiscarded),
				string(activity.StateHistorical),
			),
		field.String("title"),
		field.Text("rationale").
			Default(""),
		field.Text("notes").
			Default(""),
		field.String("theme").
			Default(""),
		field.String("source").
			Default("").
			Comment("ai, fallback-template, fallback-synthesized or manual"),
		field.JSON("skills", []activity.Skill{}),
		field.JSON("materials", []string{}).
			Optional(),
		field.JSON("steps", []string{}).
			Optional(),
		field.JSON("outcomes", []string{}).
			Optional(),
		field.JSON("safety_tips", []string{}).
			Optional(),
		field.Time("timestamp").
			Comment("Set on every state transition"),
	}
}

func (Activity) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id", "activity_id").
			Unique(),
		index.Fields("student_id", "state", "timestamp"),
	}
}
