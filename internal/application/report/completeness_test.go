package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daily-report-ai-api/internal/domain/entity"
)

func TestEvaluateAndSelectNextMove(t *testing.T) {
	rc := entity.NewReportContext(1)

	m := Evaluate(rc)
	assert.Len(t, m, 4)
	assert.Equal(t, NextMove{Kind: MoveAskFollowUp, Target: entity.CategoryWorkDone}, SelectNextMove(m))

	rc.WorkDone = "개발"
	rc.Condition = "좋음"
	m = Evaluate(rc)
	assert.Equal(t, StatusSufficient, m[entity.CategoryWorkDone])
	assert.Equal(t, []entity.Category{entity.CategoryBlockers, entity.CategoryTomorrowPlan}, m.Missing())
	assert.Equal(t, NextMove{Kind: MoveAskFollowUp, Target: entity.CategoryBlockers}, SelectNextMove(m))

	rc.Blockers = "없음"
	rc.TomorrowPlan = "배포"
	m = Evaluate(rc)
	assert.Empty(t, m.Missing())
	assert.Equal(t, NextMove{Kind: MoveCloseOut}, SelectNextMove(m))
}

func TestEvaluate_DeterministicAndReadOnly(t *testing.T) {
	tests := []struct {
		name  string
		setup func(rc *entity.ReportContext)
	}{
		{name: "fresh", setup: func(*entity.ReportContext) {}},
		{name: "partial", setup: func(rc *entity.ReportContext) { rc.WorkDone, rc.Condition = "개발", "피곤" }},
		{name: "blank and sentinel", setup: func(rc *entity.ReportContext) { rc.Blockers, rc.TomorrowPlan = "  ", entity.NoContent }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := entity.NewReportContext(1)
			tt.setup(rc)
			snapshot := rc.Clone()

			first := Evaluate(rc)
			second := Evaluate(rc)
			assert.Equal(t, first, second)
			assert.Equal(t, SelectNextMove(first), SelectNextMove(second))
			assert.Equal(t, snapshot, rc)
		})
	}
}

func TestEvaluate_WhitespaceIsMissing(t *testing.T) {
	rc := entity.NewReportContext(1)
	rc.WorkDone = "   "
	assert.Equal(t, StatusMissing, Evaluate(rc)[entity.CategoryWorkDone])
}

func TestMissingPrimary_IgnoresCondition(t *testing.T) {
	rc := entity.NewReportContext(1)
	rc.Condition = "좋음"
	assert.Len(t, MissingPrimary(rc), 3)

	rc.TomorrowPlan = "회의"
	assert.Equal(t, []entity.Category{entity.CategoryWorkDone, entity.CategoryBlockers}, MissingPrimary(rc))
}

func TestCompletenessMap_Labels(t *testing.T) {
	labels := Evaluate(entity.NewReportContext(1)).Labels()
	assert.Equal(t, StatusMissing, labels["오늘 한 일"])
	assert.Len(t, labels, 4)
}
