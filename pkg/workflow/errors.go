package workflow

import "errors"

// ValidationError is a user-facing problem with the draft. Its message is
// shown as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrTitleRequired  = &ValidationError{Message: "Title is required"}
	ErrNoCards        = &ValidationError{Message: "You must have at least one card"}
	ErrNoValidCards   = &ValidationError{Message: "At least one card must have both a term and definition"}
	ErrFrontBackEmpty = &ValidationError{Message: "Front and back are required"}

	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("submission already in progress")

	// ErrSubmitted is returned when the set has already been created.
	ErrSubmitted = errors.New("set already created")

	// ErrCardNotFound is returned for an unknown draft card id.
	ErrCardNotFound = errors.New("card not found")

	// ErrNotOpen is returned when the editor has no card.
	ErrNotOpen = errors.New("editor is not open")
)

// message returns err's text, or fallback when it has none.
func message(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
