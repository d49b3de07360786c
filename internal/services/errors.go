package services

import (
	"errors"
	"fmt"
)

// ErrComplaintNotFound covers both unknown ids and complaints owned by
// somebody else: ownership failures are deliberately indistinguishable from
// missing rows so existence is never leaked.
var ErrComplaintNotFound = errors.New("complaint not found")

// ValidationError reports the specific field a submission failed on so the
// caller can correct it. Nothing is persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
