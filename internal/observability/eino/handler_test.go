package eino

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"daily-report-ai-api/internal/domain/service"
	"daily-report-ai-api/pkg/metrics"
)

func TestObserveCall(t *testing.T) {
	ctx := service.WithCallInfo(context.Background(), "test_observe", "fake")

	ObserveCall(ctx, CallUsage{
		Model:            "m1",
		Status:           "success",
		Duration:         120 * time.Millisecond,
		PromptTokens:     10,
		CompletionTokens: 4,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("test_observe", "fake", "m1", "success")))
	assert.Equal(t, 10.0, testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("test_observe", "fake", "m1", "prompt")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("test_observe", "fake", "m1", "completion")))
}

func TestObserveCall_UnlabelledError(t *testing.T) {
	counter := metrics.LLMCallTotal.WithLabelValues("unknown", "unknown", "unknown", "error")
	before := testutil.ToFloat64(counter)

	ObserveCall(context.Background(), CallUsage{Status: "error"})

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
