// Package errors defines the typed failures surfaced by the wireframe
// extraction pipeline.
//
// Two kinds exist. A decode failure is fatal: the source image could not be
// read, so no partial output is produced. A recognition failure comes from the
// text engine and is recoverable; the pipeline logs it and continues with zero
// text fragments. An empty result (no blobs, no text) is not an error.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of a pipeline failure.
type ErrorCode string

const (
	// ErrorDecodeFailed means the source image could not be decoded or loaded.
	ErrorDecodeFailed ErrorCode = "DECODE_FAILED"

	// ErrorRecognitionFailed means the text-recognition engine failed to start
	// or crashed during recognition.
	ErrorRecognitionFailed ErrorCode = "RECOGNITION_FAILED"
)

// PipelineError is a structured pipeline failure.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewDecodeError reports that source could not be turned into pixels.
// source is a human-readable name for the input (a path, or "reader").
func NewDecodeError(source string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorDecodeFailed,
		Message: fmt.Sprintf("failed to decode image from %s", source),
		Details: map[string]interface{}{
			"source": source,
		},
		Cause: cause,
	}
}

// NewRecognitionError reports a text engine failure at the given stage
// ("init" or "recognize").
func NewRecognitionError(stage string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorRecognitionFailed,
		Message: fmt.Sprintf("text recognition failed during %s", stage),
		Details: map[string]interface{}{
			"stage": stage,
		},
		Cause: cause,
	}
}

// CodeOf returns the code of the first PipelineError in err's chain, or ""
// if there is none.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsDecodeError reports whether err carries ErrorDecodeFailed.
func IsDecodeError(err error) bool {
	return CodeOf(err) == ErrorDecodeFailed
}

// IsRecognitionError reports whether err carries ErrorRecognitionFailed.
func IsRecognitionError(err error) bool {
	return CodeOf(err) == ErrorRecognitionFailed
}

// ToMap flattens the error for structured logging.
func (e *PipelineError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}
	return result
}
