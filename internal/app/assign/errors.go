// internal/app/assign/errors.go
package assign

import (
	"errors"
	"fmt"
)

// ValidationError covers malformed input and unmet preconditions: missing
// mode or batch, empty cohort, no eligible families. Surfaced as a
// 400-class response; the caller corrects the request and retries.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced family or student vanished between
// preview and commit. Not retryable without a fresh preview.
type NotFoundError struct {
	Resource string // "family" | "student" | "slot"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no longer exists", e.Resource, e.ID)
}

// ConflictError means a student was already present in its target family
// at commit time. The whole commit batch is aborted; the caller must
// re-preview.
type ConflictError struct {
	StudentName string
	FamilyName  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("student %q is already a member of family %q", e.StudentName, e.FamilyName)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
