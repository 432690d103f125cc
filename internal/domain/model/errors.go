package model

import (
	"errors"
	"fmt"
)

// ErrMalformedEntity marks a competence that lacks one of its skill lists.
var ErrMalformedEntity = errors.New("malformed entity")

// MalformedEntityError describes which competence is broken and which field is missing.
type MalformedEntityError struct {
	Index int
	Name  string
	Field string
}

func (e *MalformedEntityError) Error() string {
	return fmt.Sprintf("competence %d (%q): missing %s", e.Index, e.Name, e.Field)
}

// Is lets errors.Is match ErrMalformedEntity.
func (e *MalformedEntityError) Is(target error) bool {
	return target == ErrMalformedEntity
}
