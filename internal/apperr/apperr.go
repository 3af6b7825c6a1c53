// Package apperr defines the structured error kinds that cross the service
// boundary. Controllers detect them with errors.As and map them to client
// error responses; anything else is treated as an internal fault.
package apperr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NotFoundError reports that an identifier lookup yielded no row.
type NotFoundError struct {
	Model string
	IDs   []uuid.UUID
}

func NewNotFound(model string, ids ...uuid.UUID) *NotFoundError {
	return &NotFoundError{Model: model, IDs: ids}
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("unable to find the %s record", e.Model)
	}
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("unable to find the %s with id: %s", e.Model, strings.Join(ids, ", "))
}

// NotFound marks the error for boundary dispatch.
func (e *NotFoundError) NotFound() {}

// DataLogicError reports a violated business-rule precondition. Fields carry
// the offending identifiers and values for machine-readable client handling.
type DataLogicError struct {
	Message string
	Fields  map[string]any
}

func NewDataLogic(message string, fields map[string]any) *DataLogicError {
	return &DataLogicError{Message: message, Fields: fields}
}

func (e *DataLogicError) Error() string {
	if len(e.Fields) == 0 {
		return "logic error: " + e.Message
	}
	return fmt.Sprintf("logic error: %s %v", e.Message, e.Fields)
}

// DataLogic marks the error for boundary dispatch.
func (e *DataLogicError) DataLogic() {}

// NoFilterError guards bulk updates invoked without any predicate.
type NoFilterError struct {
	Model string
}

func (e *NoFilterError) Error() string {
	return fmt.Sprintf("updating all records at once in %s is not allowed", e.Model)
}

func (e *NoFilterError) DataLogic() {}
