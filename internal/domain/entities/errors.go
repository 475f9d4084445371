package entities

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures so callers can tell them apart
type ErrorKind string

const (
	KindTemplateNotFound     ErrorKind = "template_not_found"
	KindCorruptPackage       ErrorKind = "corrupt_package"
	KindUnsupportedUpload    ErrorKind = "unsupported_upload"
	KindSerializationFailure ErrorKind = "serialization_failure"
	KindInvalidRequestShape  ErrorKind = "invalid_request_shape"
	KindFileNotFound         ErrorKind = "file_not_found"
)

// DeckError provides categorized error information for generation requests
type DeckError struct {
	Kind       ErrorKind `json:"error"`
	Message    string    `json:"message"`
	Field      string    `json:"field,omitempty"`
	TemplateID string    `json:"template_id,omitempty"`
	Cause      error     `json:"-"`
}

func (e *DeckError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *DeckError) Unwrap() error {
	return e.Cause
}

// Is matches any DeckError of the same kind, so the sentinels below work with errors.Is
func (e *DeckError) Is(target error) bool {
	t, ok := target.(*DeckError)
	return ok && t.Kind == e.Kind
}

// IsClientError reports whether the failure was caused by the request
func (e *DeckError) IsClientError() bool {
	return e.Kind != KindSerializationFailure
}

var (
	ErrTemplateNotFound     = &DeckError{Kind: KindTemplateNotFound}
	ErrCorruptPackage       = &DeckError{Kind: KindCorruptPackage}
	ErrUnsupportedUpload    = &DeckError{Kind: KindUnsupportedUpload}
	ErrSerializationFailure = &DeckError{Kind: KindSerializationFailure}
	ErrInvalidRequestShape  = &DeckError{Kind: KindInvalidRequestShape}
	ErrFileNotFound         = &DeckError{Kind: KindFileNotFound}
)

// NewTemplateNotFound reports an unknown template identifier
func NewTemplateNotFound(templateID string) *DeckError {
	return &DeckError{
		Kind:       KindTemplateNotFound,
		Message:    fmt.Sprintf("template not found: %s", templateID),
		TemplateID: templateID,
	}
}

// NewCorruptPackage reports a template that could not be loaded
func NewCorruptPackage(templateID string, cause error) *DeckError {
	msg := "presentation package is unreadable or malformed"
	if templateID != "" {
		msg = fmt.Sprintf("template %s is unreadable or malformed", templateID)
	}
	return &DeckError{
		Kind:       KindCorruptPackage,
		Message:    msg,
		TemplateID: templateID,
		Cause:      cause,
	}
}

// NewInvalidRequest reports a malformed request, naming the offending field
func NewInvalidRequest(field, message string) *DeckError {
	return &DeckError{
		Kind:    KindInvalidRequestShape,
		Message: message,
		Field:   field,
	}
}

// NewUnsupportedUpload reports an uploaded file that is not a presentation
func NewUnsupportedUpload(filename string) *DeckError {
	return &DeckError{
		Kind:    KindUnsupportedUpload,
		Message: fmt.Sprintf("only .pptx files are supported, got %q", filename),
		Field:   "file",
	}
}

// NewSerializationFailure reports a write-time fault
func NewSerializationFailure(filename string, cause error) *DeckError {
	return &DeckError{
		Kind:    KindSerializationFailure,
		Message: fmt.Sprintf("failed to write %s", filename),
		Cause:   cause,
	}
}

// NewFileNotFound reports an unknown output file
func NewFileNotFound(filename string) *DeckError {
	return &DeckError{
		Kind:    KindFileNotFound,
		Message: fmt.Sprintf("file not found: %s", filename),
	}
}

// AsDeckError extracts a DeckError from an error chain
func AsDeckError(err error) (*DeckError, bool) {
	var de *DeckError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
