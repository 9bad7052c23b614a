package entity

import (
	"strings"
	"time"
)

// NoContent 字段未收集到内容时的占位值
const NoContent = "no content"

// IsPresent 字段值是否包含有效内容
func IsPresent(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != NoContent
}

// ReportContext 对话房间的日报累积上下文，与房间一一对应
type ReportContext struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	RoomID       uint64    `json:"room_id" gorm:"uniqueIndex;not null"`
	WorkDone     string    `json:"work_done" gorm:"type:text;not null"`
	Blockers     string    `json:"blockers" gorm:"type:text;not null"`
	TomorrowPlan string    `json:"tomorrow_plan" gorm:"type:text;not null"`
	Condition    string    `json:"condition" gorm:"type:text;not null"`
	Version      int64     `json:"version" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ReportContext) TableName() string {
	return "report_contexts"
}

// NewReportContext 创建所有字段为占位值的上下文
func NewReportContext(roomID uint64) *ReportContext {
	return &ReportContext{
		RoomID:       roomID,
		WorkDone:     NoContent,
		Blockers:     NoContent,
		TomorrowPlan: NoContent,
		Condition:    NoContent,
	}
}

func (rc *ReportContext) field(c Category) *string {
	switch c {
	case CategoryWorkDone:
		return &rc.WorkDone
	case CategoryBlockers:
		return &rc.Blockers
	case CategoryTomorrowPlan:
		return &rc.TomorrowPlan
	case CategoryCondition:
		return &rc.Condition
	default:
		return nil
	}
}

// Field 返回分类对应的字段值，非跟踪分类返回 false
func (rc *ReportContext) Field(c Category) (string, bool) {
	p := rc.field(c)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Present 分类对应字段是否已有内容
func (rc *ReportContext) Present(c Category) bool {
	v, ok := rc.Field(c)
	return ok && IsPresent(v)
}

// Append 追加内容；原值为空或占位值时直接替换
func (rc *ReportContext) Append(c Category, text string) bool {
	p := rc.field(c)
	text = strings.TrimSpace(text)
	if p == nil || text == "" {
		return false
	}
	cur := strings.TrimSpace(*p)
	if cur == "" || cur == NoContent {
		*p = text
		return true
	}
	*p = cur + "\n" + text
	return true
}

// Clone 深拷贝
func (rc *ReportContext) Clone() *ReportContext {
	cp := *rc
	return &cp
}
