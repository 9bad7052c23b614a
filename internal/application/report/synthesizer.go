package report

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	wfnode "daily-report-ai-api/internal/workflow/node"
	workflowprompt "daily-report-ai-api/internal/workflow/prompt"
	"daily-report-ai-api/pkg/logger"
	"daily-report-ai-api/pkg/metrics"
)

// SynthesisResult 日报生成结果；标题生成失败时 TitleUpdated 为 false
type SynthesisResult struct {
	Report       *entity.Report
	Title        string
	TitleUpdated bool
	TitleError   string
}

// Synthesizer 日报生成
type Synthesizer struct {
	tx       repository.Transactor
	rooms    repository.ChatRoomRepository
	contexts repository.ReportContextRepository
	reports  repository.ReportRepository
	writer   TextModel
	locker   Locker
	cache    KVCache
	prompts  *promptBuilder
	opts     Options
}

// NewSynthesizer 创建日报生成器，cache 可为 nil
func NewSynthesizer(
	tx repository.Transactor,
	rooms repository.ChatRoomRepository,
	contexts repository.ReportContextRepository,
	reports repository.ReportRepository,
	writer TextModel,
	locker Locker,
	cache KVCache,
	registry *workflowprompt.Registry,
	opts Options,
) *Synthesizer {
	return &Synthesizer{
		tx:       tx,
		rooms:    rooms,
		contexts: contexts,
		reports:  reports,
		writer:   writer,
		locker:   locker,
		cache:    cache,
		prompts:  newPromptBuilder(registry, opts.Language),
		opts:     opts,
	}
}

// Synthesize 根据房间的累积上下文生成日报，并尝试自动更新房间标题
func (s *Synthesizer) Synthesize(ctx context.Context, roomID uint64) (*SynthesisResult, error) {
	ctx = logger.WithContext(ctx, logger.RoomIDKey, roomID)
	ctx, span := tracer.Start(ctx, "report.Synthesizer.Synthesize",
		trace.WithAttributes(attribute.Int64("room.id", int64(roomID))))
	defer span.End()

	unlock, err := s.locker.Lock(ctx, RoomLockKey(roomID))
	if err != nil {
		metrics.ReportTotal.WithLabelValues("busy").Inc()
		return nil, &RoomBusyError{RoomID: roomID, Err: err}
	}
	defer unlock()

	res, err := s.synthesize(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		metrics.ReportTotal.WithLabelValues(synthesisOutcome(err)).Inc()
		return nil, err
	}
	metrics.ReportTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (s *Synthesizer) synthesize(ctx context.Context, roomID uint64) (*SynthesisResult, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &RoomNotFoundError{RoomID: roomID}
	}

	exists, err := s.reports.ExistsByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateReportError{RoomID: roomID}
	}

	rc, err := s.contexts.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		missing := &MissingContextError{RoomID: roomID}
		logger.Error(ctx, "report context missing for existing room", missing)
		return nil, missing
	}

	if missing := MissingPrimary(rc); len(missing) == len(entity.PrimaryCategories) {
		return nil, &InsufficientDataError{Missing: missing}
	}

	body, err := s.generateBody(ctx, rc)
	if err != nil {
		return nil, err
	}

	res := &SynthesisResult{Report: entity.NewReport(roomID, room.UserID, body)}
	title, err := s.generateTitle(ctx, body)
	if err != nil {
		logger.Warn(ctx, "failed to generate room title, keeping current title", "error", err.Error())
		res.TitleError = err.Error()
		res.Title = room.Title
	} else {
		res.Title = title
		res.TitleUpdated = true
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.reports.Create(ctx, res.Report); err != nil {
			return err
		}
		if res.TitleUpdated {
			return s.rooms.UpdateTitle(ctx, roomID, res.Title)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateStatus(ctx, s.cache, roomID)
	logger.Info(ctx, "daily report created", "report_id", res.Report.ID, "title_updated", res.TitleUpdated)
	return res, nil
}

func (s *Synthesizer) generateBody(ctx context.Context, rc *entity.ReportContext) (string, error) {
	msgs, err := s.prompts.report(ctx, rc)
	if err != nil {
		return "", &GenerationError{Stage: "report", Err: err}
	}

	gctx, cancel := withTimeout(ctx, s.opts.GenerateTimeout)
	defer cancel()

	body, err := s.writer.Generate(gctx, msgs)
	if err == nil && strings.TrimSpace(body) == "" {
		err = errors.New("empty report body")
	}
	if err != nil {
		return "", &GenerationError{Stage: "report", Err: err}
	}
	return body, nil
}

func (s *Synthesizer) generateTitle(ctx context.Context, body string) (string, error) {
	msgs, err := s.prompts.title(ctx, body)
	if err != nil {
		return "", err
	}

	tctx, cancel := withTimeout(ctx, s.opts.TitleTimeout)
	defer cancel()

	raw, err := s.writer.Generate(tctx, msgs)
	if err != nil {
		return "", err
	}
	title := wfnode.CleanTitle(raw, titleMaxRunes)
	if title == "" {
		return "", errors.New("empty title")
	}
	return title, nil
}

func synthesisOutcome(err error) string {
	var (
		dup  *DuplicateReportError
		ins  *InsufficientDataError
		gen  *GenerationError
		nf   *RoomNotFoundError
		miss *MissingContextError
	)
	switch {
	case errors.As(err, &dup):
		return "duplicate"
	case errors.As(err, &ins):
		return "insufficient_data"
	case errors.As(err, &gen):
		return "generation_error"
	case errors.As(err, &nf):
		return "room_not_found"
	case errors.As(err, &miss):
		return "missing_context"
	default:
		return "error"
	}
}
