package service

import (
	"fmt"
)

// ValidationReason 区分各类客户端输入错误
type ValidationReason string

const (
	ReasonMissingPayload     ValidationReason = "missing_payload"
	ReasonInvalidContentType ValidationReason = "invalid_content_type"
	ReasonInvalidEncoding    ValidationReason = "invalid_encoding"
	ReasonEmptyPayload       ValidationReason = "empty_payload"
	ReasonPayloadTooLarge    ValidationReason = "payload_too_large"
	ReasonNoMeaningfulText   ValidationReason = "no_meaningful_text"
	ReasonNoCountableContent ValidationReason = "no_countable_content"
)

// ValidationError 是面向用户的输入校验失败，对应 HTTP 400
type ValidationError struct {
	Reason  ValidationReason
	Message string
	Size    int64 // 仅 ReasonPayloadTooLarge 时有意义
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(reason ValidationReason, msg string) *ValidationError {
	return &ValidationError{Reason: reason, Message: msg}
}

// NewPayloadTooLargeError 构造超限错误，消息里带上实际大小
func NewPayloadTooLargeError(size int64) *ValidationError {
	return &ValidationError{
		Reason:  ReasonPayloadTooLarge,
		Message: fmt.Sprintf("File too large. Maximum size is %d bytes, received %d bytes.", MaxPayloadBytes, size),
		Size:    size,
	}
}
