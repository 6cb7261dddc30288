package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/sproutcare/sprout/internal/activity"
)

// Student is a child enrolled with the daycare, keyed by its external id.
type Student struct {
	ent.Schema
}

func (Student) Fields() []ent.Field {
	return []ent.Field{
		field.String("student_id").
			NotEmpty().
			Unique().
			Comment("Caller-assigned student identifier"),
		field.String("name"),
		field.Int("age").
			Comment("Age in whole years"),
		field.Text("personality").
			Default(""),
		field.JSON("interests", []string{}).
			Optional(),
		field.JSON("goals", []string{}).
			Optional(),
		field.JSON("recent_activity", &activity.RecentActivity{}).
			Optional().
			Comment("Most recent observed activity; required before suggestions"),
		field.Time("created_at"),
		field.Time("updated_at"),
	}
}

func (Student) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name"),
	}
}
