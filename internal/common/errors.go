// Package common defines shared constants and sentinel errors used across
// the escrowdeck client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Transport / auth errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")

	// Session errors.
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrNoLocalState  = errors.New("local state unavailable")
	ErrRefreshFailed = errors.New("token refresh failed")

	// Domain errors.
	ErrValidation      = errors.New("validation error")
	ErrActionForbidden = errors.New("action not permitted for this escrow")
	ErrNotBuyer        = errors.New("only the buyer can confirm receipt")
)
