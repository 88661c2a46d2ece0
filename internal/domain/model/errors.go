package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory  = errors.New("unknown chart category")
	ErrUnknownSelection = errors.New("unknown selection")
	ErrInvalidJoinKey   = errors.New("invalid join key")
	ErrMissingColumn    = errors.New("missing required column")
	ErrMissingGeometry  = errors.New("chart requires boundary geometry")
)

// SelectionError reports a rejected (category, content) pair.
type SelectionError struct {
	Category string
	Content  string
	Err      error
}

func (e *SelectionError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("category %q: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("category %q, content %q: %v", e.Category, e.Content, e.Err)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
