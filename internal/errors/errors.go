// internal/errors/errors.go
package appErrors

import (
    "fmt"
    "strings"
)

// FieldError names one field that failed its contract.
type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// ValidationError is returned before any network call is made.
type ValidationError struct {
    Fields []FieldError
}

func (e *ValidationError) Error() string {
    parts := make([]string, 0, len(e.Fields))
    for _, f := range e.Fields {
        parts = append(parts, f.Field+": "+f.Message)
    }
    return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a failing field.
func (e *ValidationError) Add(field, message string) {
    e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
    if e == nil || len(e.Fields) == 0 {
        return nil
    }
    return e
}

func NewValidationError(field, message string) error {
    return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// ProviderError wraps a failure of the model-serving endpoint.
type ProviderError struct {
    Op  string
    Err error
}

func (e *ProviderError) Error() string {
    return fmt.Sprintf("provider error during %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(op string, err error) error {
    return &ProviderError{Op: op, Err: err}
}

// MalformedModelOutput means the model response could not be decoded into the requested shape.
type MalformedModelOutput struct {
    Raw string
    Err error
}

func (e *MalformedModelOutput) Error() string {
    return fmt.Sprintf("model returned malformed JSON: %v", e.Err)
}

func (e *MalformedModelOutput) Unwrap() error { return e.Err }

func NewMalformedModelOutput(raw string, err error) error {
    return &MalformedModelOutput{Raw: raw, Err: err}
}

// PersistenceError wraps a store failure. Generation never surfaces it.
type PersistenceError struct {
    Op  string
    Err error
}

func (e *PersistenceError) Error() string {
    return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) error {
    return &PersistenceError{Op: op, Err: err}
}

// Unauthorized is returned when there is no caller identity or the caller does not own the record.
type Unauthorized struct {
    Reason string
}

func (e *Unauthorized) Error() string {
    if e.Reason == "" {
        return "unauthorized"
    }
    return "unauthorized: " + e.Reason
}

func NewUnauthorized(reason string) error {
    return &Unauthorized{Reason: reason}
}

// ErrCampaignNotFound is returned when no campaign with the id is visible to the caller.
type ErrCampaignNotFound struct {
    CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// GenerationFailedError hides provider detail from end users while keeping the cause for logs.
type GenerationFailedError struct {
    Err error
}

func (e *GenerationFailedError) Error() string {
    return "failed to generate outreach assets, please try again"
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

func NewGenerationFailed(err error) error {
    return &GenerationFailedError{Err: err}
}
