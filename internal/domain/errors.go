package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing company record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCriteria signals malformed search criteria.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrStoreUnavailable signals a timeout or connection failure to the record store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnknownLocality signals a location token outside the normalizable set.
	ErrUnknownLocality = errors.New("unknown locality")
	// ErrResearchUnavailable signals that the web-research provider is not configured or failed.
	ErrResearchUnavailable = errors.New("research unavailable")
)

// CriteriaError wraps ErrInvalidCriteria with the offending field.
type CriteriaError struct {
	Field  string
	Reason string
}

func (e *CriteriaError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidCriteria.Error(), e.Field, e.Reason)
}

func (e *CriteriaError) Unwrap() error { return ErrInvalidCriteria }

// NewCriteriaError creates a field-level criteria validation error.
func NewCriteriaError(field, reason string) error {
	return &CriteriaError{Field: field, Reason: reason}
}
