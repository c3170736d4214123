package models

import "errors"

var (
	// ErrInvalidDonation is returned when a donation request fails validation.
	ErrInvalidDonation = errors.New("invalid donation")
	// ErrNotFound is returned when a profile, charity or checkout does not exist.
	ErrNotFound = errors.New("not found")
	// ErrGatewayUnavailable is returned when the persistence layer is unreachable or misconfigured.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	// ErrInvalidInput is returned for malformed input to a pure calculation.
	ErrInvalidInput = errors.New("invalid input")
)
