package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalError  = errors.New("internal error")

	ErrDuplicateFollow    = errors.New("follow already exists")
	ErrSelfFollow         = errors.New("self-follow is not allowed")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a rejected request with per-field messages. It matches
// ErrInvalidRequest and, when set, unwraps to the underlying cause.
type ValidationError struct {
	Fields map[string][]string
	Err    error
}

func NewValidationError(field, msg string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, msg)
	return ve
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Wrap records cause so errors.Is can see it.
func (e *ValidationError) Wrap(cause error) *ValidationError {
	e.Err = cause
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
