package util

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a request that is missing or carries an invalid field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("validation error: %s (%s)", e.Message, strings.Join(parts, ", "))
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError reports a lookup that matched no record.
type NotFoundError struct {
	Resource string
	Key      string
	Message  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// NotReadyError reports a questionnaire whose questions have not been attached yet.
type NotReadyError struct {
	AccessCode string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("questionnaire %s is waiting for questions", e.AccessCode)
}

// AlreadyCompletedError reports a questionnaire that has already been submitted.
type AlreadyCompletedError struct {
	Key string
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("questionnaire already completed: %s", e.Key)
}

// ConfigurationError reports a missing upstream credential or setting.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// UpstreamError carries a non-success reply from the generative API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %d - %s", e.Provider, e.StatusCode, e.Body)
}

// ParseError reports generative API output that could not be read as an evaluation.
type ParseError struct {
	Message string
	Raw     string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Err)
	}
	return "parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsAlreadyCompleted(err error) bool {
	var target *AlreadyCompletedError
	return errors.As(err, &target)
}
