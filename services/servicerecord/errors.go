package servicerecord

import (
	"fmt"

	"equipass/models"
)

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError indicates a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string {
	return e.Message
}

// ForbiddenError indicates the actor lacks permission for the target record.
type ForbiddenError struct {
	Message string
}

func (e ForbiddenError) Error() string {
	return e.Message
}

// InvalidStateError indicates the record's status does not permit the
// attempted operation.
type InvalidStateError struct {
	Message string
}

func (e InvalidStateError) Error() string {
	return e.Message
}

// InvalidTransitionError names the rejected from/to status pair.
type InvalidTransitionError struct {
	From models.ServiceRecordStatus
	To   models.ServiceRecordStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
