package report

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"daily-report-ai-api/internal/domain/entity"
	wfnode "daily-report-ai-api/internal/workflow/node"
	workflowprompt "daily-report-ai-api/internal/workflow/prompt"
)

const titleMaxRunes = 50

// promptBuilder 基于模板注册表组装各环节的消息
type promptBuilder struct {
	registry *workflowprompt.Registry
	language string
}

func newPromptBuilder(registry *workflowprompt.Registry, language string) *promptBuilder {
	if registry == nil {
		registry = workflowprompt.NewRegistry()
	}
	if language == "" {
		language = "Korean"
	}
	return &promptBuilder{registry: registry, language: language}
}

func (b *promptBuilder) format(ctx context.Context, id workflowprompt.PromptID, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := b.registry.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	vars["language"] = b.language
	vars["sentinel"] = entity.NoContent
	return tpl.Format(ctx, vars)
}

func (b *promptBuilder) triage(ctx context.Context, in ClassifyInput) ([]*schema.Message, error) {
	return b.format(ctx, workflowprompt.PromptTriageV1, map[string]any{
		"summary":   wfnode.BuildSummaryBlock(in.Context),
		"history":   wfnode.BuildHistoryBlock(in.History),
		"utterance": in.Utterance,
	})
}

func (b *promptBuilder) reply(ctx context.Context, move NextMove, history []*entity.Message, utterance string) ([]*schema.Message, error) {
	vars := map[string]any{
		"history":   wfnode.BuildHistoryBlock(history),
		"utterance": utterance,
	}
	if move.Kind == MoveCloseOut {
		return b.format(ctx, workflowprompt.PromptCloseOutV1, vars)
	}
	vars["target_label"] = move.Target.Label()
	return b.format(ctx, workflowprompt.PromptFollowUpV1, vars)
}

func (b *promptBuilder) report(ctx context.Context, rc *entity.ReportContext) ([]*schema.Message, error) {
	return b.format(ctx, workflowprompt.PromptReportV1, map[string]any{
		"summary": wfnode.BuildSummaryBlock(rc),
	})
}

func (b *promptBuilder) title(ctx context.Context, body string) ([]*schema.Message, error) {
	return b.format(ctx, workflowprompt.PromptTitleV1, map[string]any{
		"report": body,
	})
}
