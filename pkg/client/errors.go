package client

import (
	"fmt"
)

type ErrType string

const (
	ErrTypeInvalidConfig ErrType = "INVALID_CONFIG"
	ErrTypeNetworkError  ErrType = "NETWORK_ERROR"
	ErrTypeServerError   ErrType = "SERVER_ERROR"
	ErrTypeDecodeError   ErrType = "DECODE_ERROR"
	ErrTypeBreakerOpen   ErrType = "CIRCUIT_BREAKER_OPEN"
)

type Error struct {
	Type    ErrType `json:"type"`
	Message string  `json:"message"`
	Err     error   `json:"error,omitempty"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ErrInvalidConfig(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidConfig,
		Message: message,
	}
}

func ErrNetworkError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeNetworkError,
		Message: message,
		Err:     err,
	}
}

func ErrServerError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeServerError,
		Message: message,
		Err:     err,
	}
}

func ErrDecodeError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeDecodeError,
		Message: message,
		Err:     err,
	}
}
