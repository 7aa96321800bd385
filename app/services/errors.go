package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the order engines. Controllers translate these
// with errors.Is into HTTP responses; everything else is a store failure
// and surfaces as 500.
var (
	// ErrUnauthenticated means no or invalid credentials.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means authenticated but role-disallowed. For staff actors
	// the HTTP layer reports this as "not found or not assigned" so order
	// existence never leaks outside their visibility scope.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means an order or staff id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrStaffNotFound means the assignment target did not resolve to an
	// active staff row. Matches ErrNotFound under errors.Is.
	ErrStaffNotFound = fmt.Errorf("%w: staff", ErrNotFound)

	// ErrInvalidStatus means the status value is not one of the five states.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition means the status value is valid but the move from
	// the current state is not (includes any move out of a terminal state).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidCredentials means login failed. It does not say whether
	// the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
