package detect

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindProviderUnavailable ErrorKind = "ProviderUnavailable"
	KindInternal            ErrorKind = "Internal"
)

// Error is the structured caller-visible failure of a detection call.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind; anything unstructured is Internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
