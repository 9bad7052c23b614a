package report

import (
	"daily-report-ai-api/internal/domain/entity"
)

// Status 单个字段的完成度
type Status string

const (
	StatusMissing    Status = "missing"
	StatusSufficient Status = "sufficient"
)

// CompletenessMap 四个跟踪字段的完成度
type CompletenessMap map[entity.Category]Status

// Evaluate 计算上下文的完成度（纯函数）
func Evaluate(rc *entity.ReportContext) CompletenessMap {
	out := make(CompletenessMap, len(entity.TrackedCategories))
	for _, c := range entity.TrackedCategories {
		if rc != nil && rc.Present(c) {
			out[c] = StatusSufficient
		} else {
			out[c] = StatusMissing
		}
	}
	return out
}

// Missing 按优先级返回缺失字段
func (m CompletenessMap) Missing() []entity.Category {
	var out []entity.Category
	for _, c := range entity.TrackedCategories {
		if m[c] != StatusSufficient {
			out = append(out, c)
		}
	}
	return out
}

// MoveKind 下一步动作类型
type MoveKind string

const (
	MoveAskFollowUp MoveKind = "ask_follow_up"
	MoveCloseOut    MoveKind = "close_out"
)

// NextMove 下一步动作
type NextMove struct {
	Kind   MoveKind        `json:"kind"`
	Target entity.Category `json:"target,omitempty"`
}

// SelectNextMove 追问第一个缺失字段，全部齐全时收尾
func SelectNextMove(m CompletenessMap) NextMove {
	if missing := m.Missing(); len(missing) > 0 {
		return NextMove{Kind: MoveAskFollowUp, Target: missing[0]}
	}
	return NextMove{Kind: MoveCloseOut}
}

// MissingPrimary 缺失的主要字段（日报生成门槛，不含 condition）
func MissingPrimary(rc *entity.ReportContext) []entity.Category {
	var out []entity.Category
	for _, c := range entity.PrimaryCategories {
		if !rc.Present(c) {
			out = append(out, c)
		}
	}
	return out
}
