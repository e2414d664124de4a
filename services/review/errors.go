package review

import "fmt"

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError indicates malformed review input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ConflictError indicates a uniqueness or write-once violation.
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string {
	return e.Message
}

// ForbiddenError indicates the actor lacks permission for the target review.
type ForbiddenError struct {
	Message string
}

func (e ForbiddenError) Error() string {
	return e.Message
}

// InvalidStateError indicates the record's status does not permit reviewing.
type InvalidStateError struct {
	Message string
}

func (e InvalidStateError) Error() string {
	return e.Message
}
