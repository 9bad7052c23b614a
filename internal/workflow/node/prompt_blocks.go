package node

import (
	"strings"

	"daily-report-ai-api/internal/domain/entity"
)

// BuildSummaryBlock 将日报上下文渲染为带标签的四行文本
func BuildSummaryBlock(rc *entity.ReportContext) string {
	lines := make([]string, 0, len(entity.TrackedCategories))
	for _, c := range entity.TrackedCategories {
		v := entity.NoContent
		if rc != nil {
			if fv, ok := rc.Field(c); ok && strings.TrimSpace(fv) != "" {
				v = fv
			}
		}
		lines = append(lines, "- "+c.Label()+": "+v)
	}
	return strings.Join(lines, "\n")
}

// BuildHistoryBlock 按时间顺序渲染对话历史
func BuildHistoryBlock(msgs []*entity.Message) string {
	if len(msgs) == 0 {
		return "(없음)"
	}
	var b strings.Builder
	for i, m := range msgs {
		if m == nil {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(m.Sender))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(m.Content))
	}
	return b.String()
}
