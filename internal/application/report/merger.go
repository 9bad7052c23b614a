package report

import (
	"strings"

	"daily-report-ai-api/internal/domain/entity"
)

// MergeResult 一次合并的结果
type MergeResult struct {
	// Updated 值发生变化的字段，按优先级顺序
	Updated        []entity.Category `json:"updated"`
	ProfanityCount int               `json:"profanity_count"`
	ChatterCount   int               `json:"chatter_count"`
	// Dropped 无法识别的分类名
	Dropped []string `json:"dropped,omitempty"`
}

// Merge 将分类片段按分类合并进上下文（就地修改）
//
// 同一分类的片段按分类器输出顺序用换行连接后追加；字段为占位值时直接替换。
// 占位片段仅在该分类没有其他有效内容且字段尚无内容时保留占位值，不会覆盖已有内容。
func Merge(rc *entity.ReportContext, units []Unit) MergeResult {
	var res MergeResult

	buckets := make(map[entity.Category][]string, len(entity.TrackedCategories))
	sentinelOnly := make(map[entity.Category]bool, len(entity.TrackedCategories))

	for _, u := range units {
		if u.ProfanityDetected {
			res.ProfanityCount++
		}
		c, ok := entity.ParseCategory(u.Category)
		if !ok {
			res.Dropped = append(res.Dropped, u.Category)
			continue
		}
		if c == entity.CategoryChatter {
			res.ChatterCount++
			continue
		}
		content := strings.TrimSpace(u.Content)
		switch {
		case content == "":
			continue
		case content == entity.NoContent:
			sentinelOnly[c] = true
		default:
			buckets[c] = append(buckets[c], content)
		}
	}

	for _, c := range entity.TrackedCategories {
		before, _ := rc.Field(c)
		if parts := buckets[c]; len(parts) > 0 {
			rc.Append(c, strings.Join(parts, "\n"))
		} else if sentinelOnly[c] && strings.TrimSpace(before) == "" {
			rc.Append(c, entity.NoContent)
		}
		if after, _ := rc.Field(c); after != before {
			res.Updated = append(res.Updated, c)
		}
	}
	return res
}
