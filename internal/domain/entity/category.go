package entity

import "strings"

// Category 话语片段的分类
type Category string

const (
	CategoryWorkDone     Category = "work_done"
	CategoryBlockers     Category = "blockers"
	CategoryTomorrowPlan Category = "tomorrow_plan"
	CategoryCondition    Category = "condition"
	CategoryChatter      Category = "chatter"
)

// TrackedCategories 写入日报上下文的分类，顺序即追问优先级
var TrackedCategories = []Category{
	CategoryWorkDone,
	CategoryBlockers,
	CategoryTomorrowPlan,
	CategoryCondition,
}

// PrimaryCategories 生成日报前至少需要其一的分类
var PrimaryCategories = []Category{
	CategoryWorkDone,
	CategoryBlockers,
	CategoryTomorrowPlan,
}

var categoryLabels = map[Category]string{
	CategoryWorkDone:     "오늘 한 일",
	CategoryBlockers:     "이슈 및 블로커",
	CategoryTomorrowPlan: "내일 할 일",
	CategoryCondition:    "컨디션",
	CategoryChatter:      "잡담",
}

// Label 分类的展示名称
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsTracked 是否为写入上下文的分类
func (c Category) IsTracked() bool {
	switch c {
	case CategoryWorkDone, CategoryBlockers, CategoryTomorrowPlan, CategoryCondition:
		return true
	default:
		return false
	}
}

// ParseCategory 解析模型输出的分类名，兼容展示名称
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	switch Category(key) {
	case CategoryWorkDone, CategoryBlockers, CategoryTomorrowPlan, CategoryCondition, CategoryChatter:
		return Category(key), true
	}
	trimmed := strings.TrimSpace(s)
	for c, label := range categoryLabels {
		if trimmed == label {
			return c, true
		}
	}
	return "", false
}
