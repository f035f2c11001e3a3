package errors

import (
	"fmt"
	"io/fs"

	"github.com/hashicorp/go-multierror"
)

// DriverError is an error with a [Kind] and a customizable message. It can
// carry an underlying cause, which is reachable through Unwrap.
type DriverError interface {
	error
	Kind() Kind
	Unwrap() error
	WithMessage(message string) DriverError
	Wrap(err error) DriverError
}

type driverError struct {
	kind          Kind
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e driverError) Error() string {
	if e.message != "" {
		return e.message
	}
	return StrError(e.kind)
}

func (e driverError) Kind() Kind {
	return e.kind
}

func (e driverError) Unwrap() error {
	return e.originalError
}

// Is reports whether `target` is a driver error of the same kind. Errors of
// kind [KindNotFound] and [KindInvalidArgument] also match [fs.ErrNotExist] and
// [fs.ErrInvalid] respectively.
func (e driverError) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.kind == KindNotFound
	case fs.ErrInvalid:
		return e.kind == KindInvalidArgument
	}
	other, ok := target.(DriverError)
	return ok && other.Kind() == e.kind
}

// WithMessage returns a copy of the error with `message` appended to its own.
func (e driverError) WithMessage(message string) DriverError {
	return driverError{
		kind:          e.kind,
		message:       fmt.Sprintf("%s: %s", e.Error(), message),
		originalError: e.originalError,
	}
}

// Wrap returns a copy of the error that has `err` as its cause.
func (e driverError) Wrap(err error) DriverError {
	return driverError{
		kind:          e.kind,
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e.originalError, err),
	}
}

// New creates a new [DriverError] with the default message for its kind.
func New(kind Kind) DriverError {
	return driverError{
		kind:    kind,
		message: StrError(kind),
	}
}

func NewFromError(kind Kind, originalError error) DriverError {
	return New(kind).Wrap(originalError)
}

// NewWithMessage creates a new DriverError of the given kind with a custom
// message.
func NewWithMessage(kind Kind, message string) DriverError {
	return New(kind).WithMessage(message)
}

// KindOf returns the kind of the first [DriverError] in err's chain, or
// [KindUnknown] if there isn't one.
func KindOf(err error) Kind {
	for err != nil {
		if driverErr, ok := err.(DriverError); ok {
			return driverErr.Kind()
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = unwrapper.Unwrap()
	}
	return KindUnknown
}
