package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	workflowprompt "daily-report-ai-api/internal/workflow/prompt"
	"daily-report-ai-api/pkg/logger"
	"daily-report-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("report")

// TurnResult 一轮对话的结果
type TurnResult struct {
	UserMessage  *entity.Message
	AIMessage    *entity.Message
	Completeness CompletenessMap
	NextMove     NextMove
	Merge        MergeResult
}

// Orchestrator 对话轮次编排
type Orchestrator struct {
	tx         repository.Transactor
	rooms      repository.ChatRoomRepository
	messages   repository.MessageRepository
	contexts   repository.ReportContextRepository
	classifier Classifier
	responder  TextModel
	locker     Locker
	cache      KVCache
	prompts    *promptBuilder
	opts       Options
}

// NewOrchestrator 创建对话编排器，cache 可为 nil
func NewOrchestrator(
	tx repository.Transactor,
	rooms repository.ChatRoomRepository,
	messages repository.MessageRepository,
	contexts repository.ReportContextRepository,
	classifier Classifier,
	responder TextModel,
	locker Locker,
	cache KVCache,
	registry *workflowprompt.Registry,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		tx:         tx,
		rooms:      rooms,
		messages:   messages,
		contexts:   contexts,
		classifier: classifier,
		responder:  responder,
		locker:     locker,
		cache:      cache,
		prompts:    newPromptBuilder(registry, opts.Language),
		opts:       opts,
	}
}

// SubmitUtterance 处理用户的一条消息
//
// 整个轮次在房间锁内串行执行。模型调用在事务外完成，用户消息、上下文更新与 AI 回复
// 在同一个事务中提交；任何一步失败都不会留下本轮的数据。
func (o *Orchestrator) SubmitUtterance(ctx context.Context, roomID uint64, text string) (*TurnResult, error) {
	start := time.Now()
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyUtterance
	}

	ctx = logger.WithContext(ctx, logger.RoomIDKey, roomID)
	ctx, span := tracer.Start(ctx, "report.Orchestrator.SubmitUtterance",
		trace.WithAttributes(attribute.Int64("room.id", int64(roomID))))
	defer span.End()

	unlock, err := o.locker.Lock(ctx, RoomLockKey(roomID))
	if err != nil {
		metrics.TurnTotal.WithLabelValues("busy", "").Inc()
		return nil, &RoomBusyError{RoomID: roomID, Err: err}
	}
	defer unlock()

	res, err := o.runTurn(ctx, roomID, text)
	outcome := turnOutcome(err)
	metrics.TurnDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		metrics.TurnTotal.WithLabelValues(outcome, "").Inc()
		return nil, err
	}
	metrics.TurnTotal.WithLabelValues(outcome, string(res.NextMove.Kind)).Inc()
	return res, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, roomID uint64, text string) (*TurnResult, error) {
	room, err := o.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &RoomNotFoundError{RoomID: roomID}
	}

	rc, err := o.contexts.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		missing := &MissingContextError{RoomID: roomID}
		logger.Error(ctx, "report context missing for existing room", missing)
		return nil, missing
	}

	// 暂存用户消息：立即进入历史，提交时才写库
	userMsg := entity.NewMessage(roomID, entity.SenderUser, text)
	history, err := o.messages.ListRecent(ctx, roomID, o.opts.historyWindow()-1)
	if err != nil {
		return nil, err
	}
	history = append(history, userMsg)

	units, err := o.classify(ctx, ClassifyInput{Context: rc, History: history, Utterance: text})
	if err != nil {
		return nil, err
	}

	merged := rc.Clone()
	mergeRes := Merge(merged, units)
	o.recordMerge(ctx, mergeRes)

	completeness := Evaluate(merged)
	move := SelectNextMove(completeness)

	reply, err := o.generateReply(ctx, move, history, text)
	if err != nil {
		return nil, err
	}
	aiMsg := entity.NewMessage(roomID, entity.SenderAI, reply)

	err = o.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := o.messages.Create(ctx, userMsg); err != nil {
			return err
		}
		if err := o.contexts.UpdateWithVersion(ctx, merged); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return &ConcurrentTurnError{RoomID: roomID}
			}
			return err
		}
		return o.messages.Create(ctx, aiMsg)
	})
	if err != nil {
		return nil, err
	}

	InvalidateStatus(ctx, o.cache, roomID)

	logger.Info(ctx, "conversation turn committed",
		"move", move.Kind,
		"target", move.Target,
		"updated", mergeRes.Updated,
		"units", len(units),
	)

	return &TurnResult{
		UserMessage:  userMsg,
		AIMessage:    aiMsg,
		Completeness: completeness,
		NextMove:     move,
		Merge:        mergeRes,
	}, nil
}

func (o *Orchestrator) classify(ctx context.Context, in ClassifyInput) ([]Unit, error) {
	cctx, cancel := withTimeout(ctx, o.opts.ClassifyTimeout)
	defer cancel()

	units, err := o.classifier.Classify(cctx, in)
	if err != nil {
		var ce *ClassificationError
		if !errors.As(err, &ce) {
			err = &ClassificationError{Err: err}
		}
		logger.Warn(ctx, "utterance classification failed", "error", err.Error())
		return nil, err
	}
	return units, nil
}

func (o *Orchestrator) generateReply(ctx context.Context, move NextMove, history []*entity.Message, text string) (string, error) {
	msgs, err := o.prompts.reply(ctx, move, history, text)
	if err != nil {
		return "", &GenerationError{Stage: "reply", Err: err}
	}

	gctx, cancel := withTimeout(ctx, o.opts.GenerateTimeout)
	defer cancel()

	reply, err := o.responder.Generate(gctx, msgs)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		logger.Warn(ctx, "reply generation failed", "move", move.Kind, "error", err.Error())
		return "", &GenerationError{Stage: "reply", Err: err}
	}
	return strings.TrimSpace(reply), nil
}

func (o *Orchestrator) recordMerge(ctx context.Context, res MergeResult) {
	for _, c := range res.Updated {
		metrics.ExtractedFragments.WithLabelValues(string(c)).Inc()
	}
	if res.ProfanityCount > 0 {
		metrics.ProfanityFlags.Add(float64(res.ProfanityCount))
	}
	if len(res.Dropped) > 0 {
		metrics.UnknownCategories.Add(float64(len(res.Dropped)))
		logger.Warn(ctx, "dropped classifier units with unknown category", "categories", res.Dropped)
	}
}

func turnOutcome(err error) string {
	var (
		ce *ClassificationError
		ge *GenerationError
		nf *RoomNotFoundError
		mc *MissingContextError
		ct *ConcurrentTurnError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ce):
		return "classification_error"
	case errors.As(err, &ge):
		return "generation_error"
	case errors.As(err, &nf):
		return "room_not_found"
	case errors.As(err, &mc):
		return "missing_context"
	case errors.As(err, &ct):
		return "concurrent_turn"
	default:
		return "error"
	}
}

// InvalidateStatus 在房间状态提交后作废其完成度缓存，失败只记日志
func InvalidateStatus(ctx context.Context, cache KVCache, roomID uint64) {
	if cache == nil {
		return
	}
	if err := cache.Bump(ctx, StatusGenerationKey(roomID), statusGenerationTTL); err != nil {
		logger.Warn(ctx, "failed to invalidate room status cache", "error", err.Error())
	}
}
