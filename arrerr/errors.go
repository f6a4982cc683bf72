// Package arrerr wraps pkg/errors and adds the coded-error convention used
// throughout the read-query core, grounded on the teacher's errors package:
// every failure is tagged with a Code so callers can test for a specific
// error kind with Is rather than matching on message text.
package arrerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies one of the error kinds in the error-handling design.
type Code string

const (
	InvalidDimension      Code = "InvalidDimension"
	InvalidRange          Code = "InvalidRange"
	InvalidAttribute      Code = "InvalidAttribute"
	UnsupportedDomainType Code = "UnsupportedDomainType"
	DenseNotSupported     Code = "DenseNotSupported"
	TileOverlapError      Code = "TileOverlapError"
	InvalidBufferSize     Code = "InvalidBufferSize"
	Unsplittable          Code = "Unsplittable"
	OutOfMemory           Code = "OutOfMemory"
	Internal              Code = "Internal"
	// ShapeError is used when a caller requests the var-form size of a
	// fixed-sized attribute, or vice versa (§4.4).
	ShapeError Code = "ShapeError"
)

// codedError is the fundamental type this package uses to provide coded,
// wrappable errors.
type codedError struct {
	Code    Code
	Message string
}

func (ce codedError) Error() string { return ce.Message }

func (ce codedError) Is(target error) bool {
	t, ok := target.(codedError)
	return ok && ce.Code == t.Code
}

// New returns a new coded error with the given message.
func New(code Code, message string) error {
	return errors.WithStack(codedError{Code: code, Message: message})
}

// Newf returns a new coded error with a formatted message.
func Newf(code Code, format string, args ...interface{}) error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches message to err without losing err's Code, if any.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf attaches a formatted message to err without losing err's Code.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether err (or anything it wraps) carries the given Code.
func Is(err error, code Code) bool {
	return errors.Is(err, codedError{Code: code})
}

// Cause unwraps err to the deepest error in its chain, mirroring
// pkg/errors.Cause.
func Cause(err error) error {
	return errors.Cause(err)
}

// CodeOf returns the Code carried by err, and whether err carries one at all.
func CodeOf(err error) (Code, bool) {
	cause := errors.Cause(err)
	ce, ok := cause.(codedError)
	if !ok {
		return "", false
	}
	return ce.Code, true
}
