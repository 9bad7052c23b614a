package node

import (
	"daily-report-ai-api/internal/domain/entity"
)

// TriageSchemaName response_format.json_schema.name
const TriageSchemaName = "triage_units"

// TriageJSONSchema 话语分类输出的结构约束：顶层为对象，片段放在 units 数组中
func TriageJSONSchema() map[string]any {
	categories := []string{
		string(entity.CategoryWorkDone),
		string(entity.CategoryBlockers),
		string(entity.CategoryTomorrowPlan),
		string(entity.CategoryCondition),
		string(entity.CategoryChatter),
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"units": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category":           map[string]any{"type": "string", "enum": categories},
						"content":            map[string]any{"type": "string"},
						"profanity_detected": map[string]any{"type": "boolean"},
					},
					"required":             []string{"category", "content", "profanity_detected"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"units"},
		"additionalProperties": false,
	}
}
