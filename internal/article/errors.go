package article

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTitleRequired    = errors.New("article: title is required")
	ErrIDEmpty          = errors.New("article: title normalizes to an empty identifier")
	ErrCategoryInvalid  = errors.New("article: category is not part of the fixed set")
	ErrArticleInvalid   = errors.New("article: missing required fields")
	ErrNotFound         = errors.New("article: not found")
	ErrDuplicateID      = errors.New("article: identifier already exists")
	ErrExtractionFailed = errors.New("article: could not extract article data")
)

// NotFoundError reports a lookup miss for a specific identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.ID == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%s", ErrNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DuplicateIDError reports a title whose derived identifier collides with an
// existing record. The store rejects the create instead of silently
// overwriting the index entry.
type DuplicateIDError struct {
	ID    string
	Title string
}

func (e *DuplicateIDError) Error() string {
	if e == nil || e.ID == "" {
		return ErrDuplicateID.Error()
	}
	return fmt.Sprintf("%s: id=%s", ErrDuplicateID.Error(), e.ID)
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// ValidationError lists every missing or invalid publish-required field, not
// just the first, so the caller can surface the full set at once.
type ValidationError struct {
	Missing []string
	cause   error
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Missing) == 0 {
		return ErrArticleInvalid.Error()
	}
	return fmt.Sprintf("%s: %s", ErrArticleInvalid.Error(), strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	if e != nil && e.cause != nil {
		return e.cause
	}
	return ErrArticleInvalid
}
