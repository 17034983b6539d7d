// Package errs defines the typed error taxonomy shared by the
// payment domain. Callers match with errors.As via the Is* helpers
// and translate to transport codes at the boundary.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError marks user-correctable input problems (bad shape
// or range).
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError.
func Validationf(format string, args ...interface{}) error {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionError marks valid input applied to an entity in the
// wrong state, e.g. a registration that was never submitted.
type PreconditionError struct {
	Msg string
}

func (e PreconditionError) Error() string { return e.Msg }

// Preconditionf builds a PreconditionError.
func Preconditionf(format string, args ...interface{}) error {
	return PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError covers both a missing record and a record owned by
// someone else. The two cases are deliberately indistinguishable so
// identifiers cannot be enumerated.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return NotFoundError{Resource: resource}
}

// InvalidStateError marks an operation applied to a payment whose
// status does not permit it.
type InvalidStateError struct {
	Op     string
	Status string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s payment in status %q", e.Op, e.Status)
}

// GatewayError marks an upstream gateway failure. Retryable by the
// caller; local state is never left half-applied behind one.
type GatewayError struct {
	Op  string
	Err error
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e GatewayError) Unwrap() error { return e.Err }

// Gatewayf wraps an upstream failure.
func Gatewayf(op string, err error) error {
	return GatewayError{Op: op, Err: err}
}

// UnmappedStatusError marks a gateway status outside the known
// vocabulary. Never silently coerced: it must surface loudly in the
// logs while the untouched payment keeps its prior status.
type UnmappedStatusError struct {
	OrderID string
	Status  string
}

func (e UnmappedStatusError) Error() string {
	return fmt.Sprintf("unmapped gateway status %q for order %s", e.Status, e.OrderID)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var target PreconditionError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

// IsGateway reports whether err is a GatewayError.
func IsGateway(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

// IsUnmappedStatus reports whether err is an UnmappedStatusError.
func IsUnmappedStatus(err error) bool {
	var target UnmappedStatusError
	return errors.As(err, &target)
}
