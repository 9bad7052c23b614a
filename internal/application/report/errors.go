package report

import (
	"errors"
	"fmt"
	"strings"

	"daily-report-ai-api/internal/domain/entity"
	apperrors "daily-report-ai-api/pkg/errors"
)

// ErrEmptyUtterance 用户输入为空
var ErrEmptyUtterance = errors.New("utterance is empty")

// RoomNotFoundError 房间不存在
type RoomNotFoundError struct {
	RoomID uint64
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("chat room %d not found", e.RoomID)
}

// MissingContextError 房间缺少日报上下文（数据不一致）
type MissingContextError struct {
	RoomID uint64
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("report context missing for room %d", e.RoomID)
}

// ClassificationError 分类模型调用或输出解析失败
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// GenerationError 回复或日报生成失败
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DuplicateReportError 房间已生成过日报
type DuplicateReportError struct {
	RoomID uint64
}

func (e *DuplicateReportError) Error() string {
	return fmt.Sprintf("report already exists for room %d", e.RoomID)
}

// InsufficientDataError 主要字段全部缺失
type InsufficientDataError struct {
	Missing []entity.Category
}

func (e *InsufficientDataError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("insufficient data for report, missing: %s", strings.Join(names, ", "))
}

// RoomBusyError 获取房间锁失败
type RoomBusyError struct {
	RoomID uint64
	Err    error
}

func (e *RoomBusyError) Error() string {
	return fmt.Sprintf("chat room %d is busy: %v", e.RoomID, e.Err)
}

func (e *RoomBusyError) Unwrap() error { return e.Err }

// ConcurrentTurnError 提交时发现上下文已被其他轮次修改
type ConcurrentTurnError struct {
	RoomID uint64
}

func (e *ConcurrentTurnError) Error() string {
	return fmt.Sprintf("concurrent turn detected for room %d", e.RoomID)
}

// ToAppError 将领域错误转换为 AppError
func ToAppError(err error) *apperrors.AppError {
	var (
		notFound     *RoomNotFoundError
		missingCtx   *MissingContextError
		classifyErr  *ClassificationError
		generateErr  *GenerationError
		duplicate    *DuplicateReportError
		insufficient *InsufficientDataError
		busy         *RoomBusyError
		concurrent   *ConcurrentTurnError
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmptyUtterance):
		return apperrors.Wrap(err, apperrors.CodeInvalidParam, "메시지 내용이 비어 있습니다.")
	case errors.As(err, &notFound):
		return apperrors.Wrap(err, apperrors.CodeRoomNotFound, "대화방을 찾을 수 없습니다.")
	case errors.As(err, &missingCtx):
		return apperrors.Wrap(err, apperrors.CodeContextNotFound, "대화방의 요약 데이터가 없습니다.")
	case errors.As(err, &classifyErr):
		return apperrors.Wrap(err, apperrors.CodeClassificationFailed, "메시지 분석에 실패했습니다. 잠시 후 다시 시도해 주세요.")
	case errors.As(err, &generateErr):
		return apperrors.Wrap(err, apperrors.CodeGenerationFailed, "AI 응답 생성에 실패했습니다. 잠시 후 다시 시도해 주세요.")
	case errors.As(err, &duplicate):
		return apperrors.Wrap(err, apperrors.CodeReportExists, "이미 리포트가 생성된 대화입니다.")
	case errors.As(err, &insufficient):
		fields := make([]string, len(insufficient.Missing))
		for i, c := range insufficient.Missing {
			fields[i] = string(c)
		}
		return apperrors.Wrap(err, apperrors.CodeInsufficientData, "리포트를 생성하기에 충분한 정보가 없습니다.").WithFields(fields...)
	case errors.As(err, &busy):
		return apperrors.Wrap(err, apperrors.CodeRoomBusy, "다른 요청을 처리 중입니다. 잠시 후 다시 시도해 주세요.")
	case errors.As(err, &concurrent):
		return apperrors.Wrap(err, apperrors.CodeConcurrentTurn, "대화가 동시에 수정되었습니다. 다시 시도해 주세요.")
	default:
		return apperrors.AsAppError(err)
	}
}
