// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for the events published by the booking lifecycle.
const (
	BookingCancelledQueue = "booking.cancelled"
	SeatSwappedQueue      = "seat.swapped"
)

// Cancellation scopes carried in BookingCancelledEvent.Scope.
const (
	ScopeSingle  = "single"  // one booking cancelled by ID
	ScopePending = "pending" // bulk cancellation of all pending bookings
	ScopeClosure = "closure" // cascaded cancellation for a cinema closure
)

// BookingCancelledEvent is published after a cancellation lands.  It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type BookingCancelledEvent struct {
	EventID       string `json:"event_id"`
	Scope         string `json:"scope"`
	BookingID     uint64 `json:"booking_id,omitempty"`
	Date          string `json:"date,omitempty"`
	CinemaName    string `json:"cinema_name,omitempty"`
	Cancelled     int64  `json:"cancelled"`
	SeatsReleased bool   `json:"seats_released"`
	OccurredAt    string `json:"occurred_at"`
}

// SeatSwappedEvent is published when a booking successfully exchanges one
// reserved seat for another.
type SeatSwappedEvent struct {
	EventID    string `json:"event_id"`
	BookingID  uint64 `json:"booking_id"`
	FromSeatID uint64 `json:"from_seat_id"`
	ToSeatID   uint64 `json:"to_seat_id"`
	PriceCents uint32 `json:"price_cents"`
	OccurredAt string `json:"occurred_at"`
}
