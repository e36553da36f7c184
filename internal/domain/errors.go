package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, non-positive amount).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned by service functions when the caller's role does
// not allow the operation. Mutations require the Captain role; a Guest caller
// gets this error before any repository call is made.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when a request carries an invalid or expired
// session token. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrBadCredentials is returned by the login flow when the email/password
// pair does not match a provisioned captain account. Deliberately generic —
// it must not reveal whether the email exists.
var ErrBadCredentials = errors.New("invalid credentials")

// ErrAuthDisabled is returned by the login flow when no captain accounts are
// provisioned at all. This is an operator-facing condition (the deployment is
// missing its captain seed), distinct from a user typing a wrong password.
var ErrAuthDisabled = errors.New("captain login is not configured")

// ErrGuestCount is returned by cost computations when the guest count is
// below one. Per-head division must never produce Inf or NaN.
var ErrGuestCount = errors.New("guest count must be at least 1")

// ErrUnavailable is returned when a best-effort external collaborator
// (exchange-rate API, enrichment scrape) cannot be reached. Callers keep
// their last-known values; nothing built on top of it is allowed to fail hard.
var ErrUnavailable = errors.New("external service unavailable")
