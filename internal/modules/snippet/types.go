package snippet

import (
	"errors"
	"strings"
)

// Sentinel errors surfaced by the access engine and the store.
// Handlers translate them to HTTP status codes; nothing here is fatal.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("snippet not found")
)

// CreateSnippetDTO is the request body for snippet creation. It carries no
// id, owner or timestamp fields, so a caller cannot spoof any of them: the
// decoder drops unknown keys and the service assigns system fields itself.
type CreateSnippetDTO struct {
	Title       string   `json:"title"       binding:"required,max=100"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Code        string   `json:"code"        binding:"required"`
	Language    string   `json:"language"    binding:"required"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"isPublic"`
}

// UpdateSnippetDTO is the partial request body for snippet updates.
// Absent fields are left untouched.
type UpdateSnippetDTO struct {
	Title       *string   `json:"title"       binding:"omitempty,max=100"`
	Description *string   `json:"description" binding:"omitempty,max=500"`
	Code        *string   `json:"code"`
	Language    *string   `json:"language"`
	Tags        *[]string `json:"tags"`
	IsPublic    *bool     `json:"isPublic"`
}

// FieldError is a single field constraint violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates one message per offending field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), ", ")
}

// Messages returns the per-field messages in declaration order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return msgs
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
