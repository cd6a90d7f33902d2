package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/jtd-infer/internal/pipeline"
	"github.com/usestring/jtd-infer/pkg/jtd"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInvalidHint   = "INVALID_HINT"
	ErrCodeDiscriminator = "DISCRIMINATOR"
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeInternal      = "INTERNAL"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// Code classifies err into one of the error codes.
func Code(err error) string {
	var coded *CodedError
	switch {
	case errors.As(err, &coded):
		return coded.Code
	case errors.Is(err, jtd.ErrInvalidPointer), errors.Is(err, jtd.ErrUnsupportedNumType):
		return ErrCodeInvalidHint
	case errors.Is(err, jtd.ErrDiscriminatorTag):
		return ErrCodeDiscriminator
	case errors.Is(err, pipeline.ErrInvalidInput):
		return ErrCodeInvalidInput
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// WrapError converts a pipeline error to a coded error.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	coded = &CodedError{Code: Code(err), Message: message(err), Cause: err}
	if coded.Code == ErrCodeInternal {
		slog.Error("inference failed", slog.String("error", err.Error()))
	} else {
		slog.Warn("inference rejected",
			slog.String("code", coded.Code),
			slog.String("error", err.Error()),
		)
	}
	return coded
}

func message(err error) string {
	switch Code(err) {
	case ErrCodeInvalidHint:
		return "invalid hint"
	case ErrCodeDiscriminator:
		return "document violates a discriminator hint"
	case ErrCodeInvalidInput:
		return "cannot process input"
	case ErrCodeTimeout:
		return "request timed out"
	default:
		return "internal error"
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
