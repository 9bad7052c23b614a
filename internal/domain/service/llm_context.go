// Package service 定义跨层共享的模型调用上下文
package service

import (
	"context"
	"strings"
)

// UnknownLabel 未标注调用的指标标签值
const UnknownLabel = "unknown"

// CallInfo 一次模型调用所属的工作流与提供商，用作指标和追踪标签
type CallInfo struct {
	Workflow string
	Provider string
}

type callInfoKey struct{}

// WithCallInfo 标注后续模型调用所属的工作流与提供商，空值保留已有标注
func WithCallInfo(ctx context.Context, workflow, provider string) context.Context {
	info := CallInfoFromContext(ctx)
	if w := strings.TrimSpace(workflow); w != "" {
		info.Workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		info.Provider = p
	}
	return context.WithValue(ctx, callInfoKey{}, info)
}

// CallInfoFromContext 读取调用标注，缺失的字段为 UnknownLabel
func CallInfoFromContext(ctx context.Context) CallInfo {
	info := CallInfo{Workflow: UnknownLabel, Provider: UnknownLabel}
	if ctx == nil {
		return info
	}
	if v, ok := ctx.Value(callInfoKey{}).(CallInfo); ok {
		if v.Workflow != "" {
			info.Workflow = v.Workflow
		}
		if v.Provider != "" {
			info.Provider = v.Provider
		}
	}
	return info
}
