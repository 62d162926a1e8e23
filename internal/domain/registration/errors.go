package domain

import "fmt"

// ErrorCode identifies a registration domain rule violation
type ErrorCode string

const (
	CodeInvalidPair          ErrorCode = "invalid_pair"
	CodeDuplicateParticipant ErrorCode = "duplicate_participant"
	CodeDuplicatePair        ErrorCode = "duplicate_pair"
	CodePriceMismatch        ErrorCode = "price_mismatch"
	CodeInvalidSlotRange     ErrorCode = "invalid_slot_range"
	CodeInvalidSlotOrder     ErrorCode = "invalid_slot_order"
	CodeDuplicateSlot        ErrorCode = "duplicate_slot"
	CodeOverlappingSlot      ErrorCode = "overlapping_slot"
	CodeNotFound             ErrorCode = "not_found"
	CodeStorageConflict      ErrorCode = "storage_conflict"
)

// Error is a domain rule violation detected before (or, for
// StorageConflict, during) a write. Field names the offending payload
// field when one can be attributed.
type Error struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, field, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound builds the not-found error for a named resource
func ErrNotFound(resource string) *Error {
	return newError(CodeNotFound, "", "%s not found", resource)
}

// ErrStorageConflict wraps a storage-level unique constraint violation that
// slipped past the application checks (concurrent submission race). It is
// surfaced as a conflict and never retried.
func ErrStorageConflict() *Error {
	return newError(CodeStorageConflict, "", "a conflicting registration was created concurrently; please re-submit")
}

// IsConflict reports whether err is one of the uniqueness conflicts that
// map to HTTP 409.
func IsConflict(err error) bool {
	de, ok := err.(*Error)
	if !ok {
		return false
	}
	switch de.Code {
	case CodeDuplicateParticipant, CodeDuplicatePair, CodeStorageConflict:
		return true
	}
	return false
}
