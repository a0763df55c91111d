// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios without
// inspecting driver errors. For example, ErrSeatUnavailable indicates that
// a conditional seat claim matched no rows because the seat is already
// owned, while ErrSeatNotOwned signals that a booking does not hold the
// seat it is trying to release.
package repository

import "errors"

// ErrSeatUnavailable is returned when a seat claim affects zero rows:
// the target seat is already owned by a booking or does not exist.
// Handlers should translate this into an HTTP 409 response.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrSeatNotOwned is returned when a seat lookup or release restricted to
// a specific booking matches no rows, meaning the booking does not own the
// seat (or its state changed concurrently). Handlers should translate this
// into an HTTP 404 response.
var ErrSeatNotOwned = errors.New("seat not owned by booking")
