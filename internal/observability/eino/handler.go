// Package eino 注册 Eino 全局回调，为模型调用上报指标和追踪
package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"daily-report-ai-api/internal/domain/service"
	"daily-report-ai-api/pkg/metrics"
)

// startTimeKey 在 OnStart 记录开始时间，OnEnd/OnError 计算耗时
type startTimeKey struct{}

// modelNameKey OnStart 解析出的模型名，OnError 时输出里拿不到
type modelNameKey struct{}

// CallUsage 一次模型调用的可观测数据
type CallUsage struct {
	Model            string
	Status           string
	Duration         time.Duration
	PromptTokens     int
	CompletionTokens int
}

// ObserveCall 上报一次模型调用（未经过 Eino 回调的直连调用也使用它）
func ObserveCall(ctx context.Context, u CallUsage) {
	info := service.CallInfoFromContext(ctx)
	modelName := u.Model
	if modelName == "" {
		modelName = service.UnknownLabel
	}

	metrics.LLMCallTotal.WithLabelValues(info.Workflow, info.Provider, modelName, u.Status).Inc()
	if u.Duration > 0 {
		metrics.LLMCallDuration.WithLabelValues(info.Workflow, info.Provider, modelName).Observe(u.Duration.Seconds())
	}
	if u.PromptTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(info.Workflow, info.Provider, modelName, "prompt").Add(float64(u.PromptTokens))
	}
	if u.CompletionTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(info.Workflow, info.Provider, modelName, "completion").Add(float64(u.CompletionTokens))
	}
}

func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			modelName := modelNameFromInput(input)
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())
			ctx = context.WithValue(ctx, modelNameKey{}, modelName)

			call := service.CallInfoFromContext(ctx)
			attrs := []attribute.KeyValue{
				attribute.String("eino.workflow", call.Workflow),
				attribute.String("llm.provider", call.Provider),
				attribute.String("llm.model", modelName),
			}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.node_name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}

			ctx, _ = otel.Tracer("eino").Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			u := CallUsage{
				Model:    modelNameFromOutput(ctx, output),
				Status:   "success",
				Duration: elapsed(ctx),
			}
			if output != nil && output.TokenUsage != nil {
				u.PromptTokens = output.TokenUsage.PromptTokens
				u.CompletionTokens = output.TokenUsage.CompletionTokens
			}
			ObserveCall(ctx, u)

			span := trace.SpanFromContext(ctx)
			span.SetAttributes(
				attribute.Int("llm.prompt_tokens", u.PromptTokens),
				attribute.Int("llm.completion_tokens", u.CompletionTokens),
			)
			span.End()
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			modelName, _ := ctx.Value(modelNameKey{}).(string)
			ObserveCall(ctx, CallUsage{Model: modelName, Status: "error", Duration: elapsed(ctx)})

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return ctx
		},
	}
}

func elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start)
}

func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func modelNameFromOutput(ctx context.Context, out *model.CallbackOutput) string {
	if out != nil && out.Config != nil && out.Config.Model != "" {
		return out.Config.Model
	}
	name, _ := ctx.Value(modelNameKey{}).(string)
	return name
}
