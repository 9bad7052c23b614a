package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	workflowprompt "daily-report-ai-api/internal/workflow/prompt"
)

// LLMClassifier 基于 JSON 模式模型的分类器
type LLMClassifier struct {
	model   JSONModel
	prompts *promptBuilder
}

// NewLLMClassifier 创建分类器
func NewLLMClassifier(model JSONModel, registry *workflowprompt.Registry, language string) *LLMClassifier {
	return &LLMClassifier{model: model, prompts: newPromptBuilder(registry, language)}
}

// Classify 调用模型切分并分类话语，任何失败都返回 ClassificationError
func (c *LLMClassifier) Classify(ctx context.Context, in ClassifyInput) ([]Unit, error) {
	if c == nil || c.model == nil {
		return nil, &ClassificationError{Err: fmt.Errorf("classifier model not configured")}
	}

	msgs, err := c.prompts.triage(ctx, in)
	if err != nil {
		return nil, &ClassificationError{Err: err}
	}
	raw, err := c.model.GenerateJSON(ctx, msgs)
	if err != nil {
		return nil, &ClassificationError{Err: err}
	}
	units, err := ParseUnits(raw)
	if err != nil {
		return nil, &ClassificationError{Err: err}
	}
	return units, nil
}

// ParseUnits 解析分类输出。约定格式为 {"units":[...]}；
// 同时接受裸数组、单个片段对象，以及只含一个数组字段的其他包裹键（如 results）
func ParseUnits(raw string) ([]Unit, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty classifier output")
	}

	if strings.HasPrefix(raw, "[") {
		return decodeUnits(json.RawMessage(raw))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("invalid classifier output: %w", err)
	}
	if units, ok := fields["units"]; ok {
		return decodeUnits(units)
	}
	if _, ok := fields["category"]; ok {
		var u Unit
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("invalid classifier output: %w", err)
		}
		return []Unit{u}, nil
	}

	var arrays []string
	for key, v := range fields {
		if t := bytes.TrimSpace(v); len(t) > 0 && t[0] == '[' {
			arrays = append(arrays, key)
		}
	}
	switch len(arrays) {
	case 0:
		return nil, fmt.Errorf("classifier output has no units")
	case 1:
		return decodeUnits(fields[arrays[0]])
	default:
		sort.Strings(arrays)
		return nil, fmt.Errorf("classifier output has ambiguous unit arrays %v", arrays)
	}
}

func decodeUnits(raw json.RawMessage) ([]Unit, error) {
	units := []Unit{}
	if err := json.Unmarshal(raw, &units); err != nil {
		return nil, fmt.Errorf("invalid classifier output: %w", err)
	}
	return units, nil
}
