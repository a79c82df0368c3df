package store

import "errors"

// Reason identifies why a mutation was rejected before reaching storage.
type Reason int

const (
	EmptyDescription Reason = iota + 1
	BadDeadlineFormat
)

// ValidationError is returned when input fails validation. Nothing is written.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case EmptyDescription:
		return "description cannot be empty"
	case BadDeadlineFormat:
		return "invalid deadline format, use YYYY-MM-DD"
	default:
		return "invalid task"
	}
}

// Is matches any ValidationError carrying the same reason.
func (e *ValidationError) Is(target error) bool {
	var ve *ValidationError
	if !errors.As(target, &ve) {
		return false
	}
	return ve.Reason == e.Reason
}

var (
	ErrEmptyDescription  = &ValidationError{Reason: EmptyDescription}
	ErrBadDeadlineFormat = &ValidationError{Reason: BadDeadlineFormat}

	// ErrNotFound is only returned by Get. Mutations report model.NotFound instead.
	ErrNotFound = errors.New("task not found")
)
