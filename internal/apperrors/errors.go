// Package apperrors defines the typed business errors shared by the
// repository, service and handler layers. These are expected outcomes,
// not faults: callers dispatch on them with errors.Is. Infrastructure
// failures are wrapped with fmt.Errorf("...: %w", err) instead.
package apperrors

import "errors"

var (
	// ErrNotFound: the referenced raffle, number, payment or user
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a reserve attempt lost the race for a number, or a
	// pending payment already exists for the reservation.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState: a status precondition was violated, e.g.
	// submitting payment against a number that is not reserved.
	ErrInvalidState = errors.New("invalid state")

	// ErrForbidden: the caller lacks the required role or does not own
	// the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrGone: the caller's reservation has expired.
	ErrGone = errors.New("reservation expired")

	// ErrAlreadyResolved: another staff member resolved the payment
	// first. Distinct from ErrInvalidState so callers can tell "someone
	// beat you to it" from "this was never valid".
	ErrAlreadyResolved = errors.New("payment already resolved")
)
