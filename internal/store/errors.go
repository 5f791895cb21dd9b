package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes store failures.
type ErrorCode string

const (
	// CodeValidation indicates a record or query spec was rejected before
	// touching the database.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeStorageUnavailable indicates the database could not be opened or a
	// statement could not run or commit.
	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"

	// CodeDataCorruption indicates a stored row could not be decoded into
	// the schema.
	CodeDataCorruption ErrorCode = "DATA_CORRUPTION"

	// CodeNotFound indicates the targeted id does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Code.
var (
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDataCorruption     = errors.New("data corruption")
	ErrNotFound           = errors.New("not found")
)

// Error is returned by every Store operation that fails.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed: open, init, create, get, read,
	// update or delete.
	Op string

	// Table is the table the operation targeted, if known.
	Table string

	// ID is the row involved, zero when not applicable.
	ID int64

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Table != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Table)
	}
	if e.ID != 0 {
		fmt.Fprintf(&sb, " id=%d", e.ID)
	}
	sb.WriteString(": ")
	sb.WriteString(e.sentinel().Error())
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's code.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Code {
	case CodeValidation:
		return ErrValidation
	case CodeDataCorruption:
		return ErrDataCorruption
	case CodeNotFound:
		return ErrNotFound
	default:
		return ErrStorageUnavailable
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a store
// error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
