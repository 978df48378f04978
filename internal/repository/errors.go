// Package repository defines the data access layer and the sentinel
// error values shared across repositories.  The sentinels let handlers
// distinguish failure scenarios with errors.Is and map them onto the
// HTTP taxonomy: validation and conflicts become 400, missing entities
// 404, store failures 500.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrSeatUnavailable is returned when the requested seat does not exist
// or its static status is anything other than "available".
var ErrSeatUnavailable = errors.New("seat not found or unavailable")

// ErrBookingConflict is returned when the requested time slot overlaps
// an existing active booking for the same seat and date.
var ErrBookingConflict = errors.New("time slot already booked")

// ErrBookingNotFound is returned when a booking lookup scoped to the
// calling user yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingNotActive is returned when cancelling or checking in a
// booking that is already cancelled or completed.
var ErrBookingNotActive = errors.New("booking already cancelled or completed")

// ErrAlreadyCheckedIn is returned when a booking has a check-in
// timestamp and a second check-in is attempted.
var ErrAlreadyCheckedIn = errors.New("already checked in")
