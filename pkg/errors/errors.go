// Package errors 定义对外暴露的错误码与应用错误
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码，按首位数字分组
type ErrorCode string

const (
	// 通用 (1xxx)
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 认证授权 (2xxx)
	CodeTokenExpired     ErrorCode = "2001"
	CodeTokenInvalid     ErrorCode = "2002"
	CodeTokenMissing     ErrorCode = "2003"
	CodePermissionDenied ErrorCode = "2004"

	// 资源 (3xxx)
	CodeRoomNotFound    ErrorCode = "3001"
	CodeReportNotFound  ErrorCode = "3002"
	CodeUserNotFound    ErrorCode = "3003"
	CodeContextNotFound ErrorCode = "3004"

	// 对话与日报 (4xxx)
	CodeGenerationFailed     ErrorCode = "4001"
	CodeClassificationFailed ErrorCode = "4002"
	CodeReportExists         ErrorCode = "4003"
	CodeInsufficientData     ErrorCode = "4004"
	CodeRoomBusy             ErrorCode = "4006"
	CodeConcurrentTurn       ErrorCode = "4007"
)

// codeInfo 错误码对应的 HTTP 状态与是否可重试
type codeInfo struct {
	status    int
	retryable bool
}

var codeTable = map[ErrorCode]codeInfo{
	CodeInvalidParam:         {http.StatusBadRequest, false},
	CodeUnauthorized:         {http.StatusUnauthorized, false},
	CodeTokenExpired:         {http.StatusUnauthorized, false},
	CodeTokenInvalid:         {http.StatusUnauthorized, false},
	CodeTokenMissing:         {http.StatusUnauthorized, false},
	CodeForbidden:            {http.StatusForbidden, false},
	CodePermissionDenied:     {http.StatusForbidden, false},
	CodeNotFound:             {http.StatusNotFound, false},
	CodeRoomNotFound:         {http.StatusNotFound, false},
	CodeReportNotFound:       {http.StatusNotFound, false},
	CodeUserNotFound:         {http.StatusNotFound, false},
	CodeConflict:             {http.StatusConflict, false},
	CodeReportExists:         {http.StatusConflict, false},
	CodeRoomBusy:             {http.StatusConflict, true},
	CodeConcurrentTurn:       {http.StatusConflict, true},
	CodeInsufficientData:     {http.StatusUnprocessableEntity, false},
	CodeGenerationFailed:     {http.StatusBadGateway, true},
	CodeClassificationFailed: {http.StatusBadGateway, true},
	CodeTooManyRequests:      {http.StatusTooManyRequests, true},
	CodeServiceUnavailable:   {http.StatusServiceUnavailable, true},
}

func infoOf(code ErrorCode) codeInfo {
	if info, ok := codeTable[code]; ok {
		return info
	}
	return codeInfo{status: http.StatusInternalServerError}
}

// AppError 应用错误，Err 只用于日志，不会写入响应
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Retryable  bool      `json:"retryable"`
	Fields     []string  `json:"fields,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// With* 返回副本，预定义错误可安全复用

// WithDetail 附加说明
func (e *AppError) WithDetail(detail string) *AppError {
	c := e.clone()
	c.Detail = detail
	return c
}

// WithError 附加底层错误
func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.Err = err
	return c
}

// WithFields 附加相关字段（如缺失的日报分类）
func (e *AppError) WithFields(fields ...string) *AppError {
	c := e.clone()
	c.Fields = append(append([]string(nil), e.Fields...), fields...)
	return c
}

func (e *AppError) clone() *AppError {
	c := *e
	return &c
}

// New 按错误码创建
func New(code ErrorCode, message string) *AppError {
	info := infoOf(code)
	return &AppError{
		Code:       code,
		Message:    message,
		Retryable:  info.retryable,
		HTTPStatus: info.status,
	}
}

// Wrap 按错误码包装底层错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Err = err
	return e
}

// 预定义错误
var (
	ErrUnauthorized    = New(CodeUnauthorized, "unauthorized")
	ErrTooManyRequests = New(CodeTooManyRequests, "too many requests")
	ErrInternalError   = New(CodeInternalError, "internal server error")

	ErrTokenExpired = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing = New(CodeTokenMissing, "token missing")
)

// IsAppError 错误链中是否含有 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 取出错误链中的 AppError，没有时包装为 CodeUnknown
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
