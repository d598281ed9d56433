// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 工单错误 (2xxx)
	CodeInvalidTicket ErrorCode = "2001"

	// 业务错误 (4xxx)
	CodeRetrievalFailed     ErrorCode = "4001"
	CodeScoringFailed       ErrorCode = "4002"
	CodeEmbeddingFailed     ErrorCode = "4003"
	CodeAdvisoryUnavailable ErrorCode = "4004"
	CodeQuotaExceeded       ErrorCode = "4005"

	// 外部服务错误 (5xxx)
	CodeDatabaseError ErrorCode = "5001"
	CodeCacheError    ErrorCode = "5002"
	CodeVectorDBError ErrorCode = "5003"
	CodeCatalogError  ErrorCode = "5004"
)

// httpStatusByCode 错误码到 HTTP 状态码的映射，未命中按 500 处理
var httpStatusByCode = map[ErrorCode]int{
	CodeSuccess:            http.StatusOK,
	CodeInvalidParam:       http.StatusBadRequest,
	CodeInvalidTicket:      http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeTooManyRequests:    http.StatusTooManyRequests,
	CodeQuotaExceeded:      http.StatusTooManyRequests,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	status, ok := httpStatusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Wrap 以指定错误码包装底层错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Err = err
	return appErr
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 返回带详细信息的副本，预定义错误本身不被修改
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 返回带底层错误的副本
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrInvalidTicket   = New(CodeInvalidTicket, "invalid ticket")
	ErrRetrievalFailed = New(CodeRetrievalFailed, "precedent retrieval failed")
	ErrScoringFailed   = New(CodeScoringFailed, "contestation scoring failed")
	ErrQuotaExceeded   = New(CodeQuotaExceeded, "catalog quota exceeded")
	ErrEmbeddingFailed = New(CodeEmbeddingFailed, "embedding call failed")

	ErrAdvisoryUnavailable = New(CodeAdvisoryUnavailable, "advisory provider unavailable")
	ErrCatalogError        = New(CodeCatalogError, "catalog service error")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将任意错误规整为 AppError，未知错误按 CodeUnknown 包装。
// 返回值永不为 nil。
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
