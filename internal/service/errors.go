package service

import (
	"fmt"
)

// The four domain error kinds every core operation can return. Anything else
// coming out of a service is an unexpected persistence/infrastructure failure
// and is propagated as-is, never masked as one of these.

// NotFoundError indicates a referenced entity id did not resolve.
type NotFoundError struct {
	Resource string // "session", "log", "goal", "user", "plan", "exercise"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource/id pair.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidArgumentError indicates a caller-supplied value violates a field
// constraint: numeric range, required field, or unknown enum value.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewInvalidArgument builds an InvalidArgumentError naming the offending field.
func NewInvalidArgument(field, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

// IllegalStateError indicates an operation is not permitted in the entity's
// current lifecycle state. The dominant error kind in this core.
type IllegalStateError struct {
	Operation string
	Current   string
	Detail    string
}

func (e *IllegalStateError) Error() string {
	msg := fmt.Sprintf("cannot %s in state %s", e.Operation, e.Current)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// NewIllegalState builds an IllegalStateError naming the current state.
func NewIllegalState(operation, current, detail string) *IllegalStateError {
	return &IllegalStateError{Operation: operation, Current: current, Detail: detail}
}

// ConflictError indicates a uniqueness violation surfaced by the persistence
// layer (e.g., duplicate plan name). Propagated, not generated, by the core.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflict builds a ConflictError.
func NewConflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}
