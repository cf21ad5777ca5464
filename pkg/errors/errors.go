package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别，决定返回的 HTTP 状态码
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindUnauthorized
	KindInvalidCredentials
	KindDuplicateUsername
)

// String 返回类别名
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindDuplicateUsername:
		return "duplicate_username"
	default:
		return "storage"
	}
}

// Status 类别对应的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindDuplicateUsername:
		return http.StatusBadRequest
	case KindUnauthorized, KindInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AppError 应用错误类型
// 用于统一管理业务错误，包含错误类别和错误消息
type AppError struct {
	Kind    Kind   // 错误类别
	Message string // 用户可见的错误消息
	Err     error  // 原始错误（可选）
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap 支持 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError 创建新错误
func NewError(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap 包装原始错误
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{
		Kind:    e.Kind,
		Message: e.Message,
		Err:     err,
	}
}

// WithMessage 替换用户可见消息，保留类别
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Kind:    e.Kind,
		Message: message,
		Err:     e.Err,
	}
}

// Is 判断是否为同一类别的错误
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == target.Kind
	}
	return false
}

// KindOf 获取错误类别，非 AppError 视为存储错误
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// StatusOf 获取错误对应的 HTTP 状态码
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// MessageOf 获取返回给调用方的错误消息
// 存储错误会带上底层错误信息
func MessageOf(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Kind == KindStorage && appErr.Err != nil {
		return appErr.Message + ": " + appErr.Err.Error()
	}
	return appErr.Message
}

// ============== 预定义错误 ==============

var (
	ErrValidation         = NewError(KindValidation, "Invalid request")
	ErrUnauthorized       = NewError(KindUnauthorized, "Unauthorized")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "Invalid credentials")
	ErrDuplicateUsername  = NewError(KindDuplicateUsername, "Username already exists")
	ErrStorage            = NewError(KindStorage, "Storage error")
)
