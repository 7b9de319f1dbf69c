package chat

import "fmt"

// Sentinel errors surfaced to the transport layers. REST maps ErrNotFound
// to 404 and ValidationError to 400; the gateway turns both into a
// messageError event scoped to the sending connection.
var (
	ErrNotFound = fmt.Errorf("chat: not found")
)

// ValidationError describes a rejected request (missing recipient or
// content, unknown status value). Not retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("chat: invalid %s: %s", e.Field, e.Reason)
}

func errMissing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}
