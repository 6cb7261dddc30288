package suggest

import (
	"strings"

	"github.com/sproutcare/sprout/internal/llm"
	"github.com/sproutcare/sprout/internal/skills"
)

// BatchSchema defines the JSON schema for a batch of suggested activities.
// Categories are described rather than enumerated so that an unknown one
// reaches skill normalization and is rejected there.
var BatchSchema = &llm.Schema{
	Name:        "activity-batch",
	Description: "A batch of educational activity suggestions for one child",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"activities": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short, distinctive activity title (2-6 words)",
						},
						"why_it_works": map[string]any{
							"type":        "string",
							"description": "1-2 sentences on why this suits the child right now",
						},
						"skills": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"name": map[string]any{
										"type":        "string",
										"description": "The specific skill practiced",
									},
									"category": map[string]any{
										"type":        "string",
										"description": "One of: " + categoryList(),
									},
								},
								"required":             []any{"name", "category"},
								"additionalProperties": false,
							},
						},
						"notes": map[string]any{
							"type":        "string",
							"description": "Setup or adaptation notes for the caregiver; may be empty",
						},
					},
					"required":             []any{"title", "why_it_works", "skills", "notes"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"activities"},
		"additionalProperties": false,
	},
}

func categoryList() string {
	cats := skills.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
