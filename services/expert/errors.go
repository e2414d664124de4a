package expert

import "fmt"

// NotFoundError indicates the referenced expert does not exist.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("expert %s not found", e.ID)
}

// ValidationError indicates a malformed work-status request.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
