// Package repository contains data access logic for the booking lifecycle.
// This file defines the Booking model and the status-transition statements.
// A Booking groups the seats reserved for a user on a particular show; its
// status walks one way only: pending -> paid -> cancelled.
package repository

import (
	"context"
	"database/sql"
)

// Booking status values as stored in the bookings.status column.
// The cancelled state is terminal; no statement in this package ever
// moves a booking out of it.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Booking mirrors the schema of the bookings table.  The ID is supplied by
// the caller rather than generated from a sequence.  BookedAt is stored in
// DB format "2006-01-02 15:04:05" (UTC).
type Booking struct {
	ID        uint64 // ID is the externally supplied primary key
	Status    string // Status is one of pending, paid, cancelled
	BookedAt  string // BookedAt is the scheduled date-time of the booking
	NumSeats  uint32 // NumSeats is the number of seats booked
	ShowID    uint64 // ShowID references the show being booked
	UserEmail string // UserEmail identifies the booking user
}

// BookingRepo encapsulates database operations on the bookings table.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a new booking with the caller-supplied ID.  When Status is
// empty it defaults to pending.  Duplicate IDs surface as the driver's
// uniqueness violation and are propagated unchanged.
func (r *BookingRepo) Create(ctx context.Context, b *Booking) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	const q = `INSERT INTO bookings (id, status, booked_at, num_seats, show_id, user_email) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, b.ID, b.Status, b.BookedAt, b.NumSeats, b.ShowID, b.UserEmail)
	return err
}

// CancelAllPendingTx transitions every pending booking to cancelled in a
// single set-based statement and returns the number of rows affected.
func (r *BookingRepo) CancelAllPendingTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	const q = `UPDATE bookings SET status = ? WHERE status = ?`
	res, err := tx.ExecContext(ctx, q, StatusCancelled, StatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelByIDTx transitions a single booking to cancelled regardless of its
// current status.  Already-cancelled rows are excluded from the predicate so
// the affected count reflects a real transition; repeat calls on the same ID
// report zero rows without error.
func (r *BookingRepo) CancelByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (int64, error) {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status <> ?`
	res, err := tx.ExecContext(ctx, q, StatusCancelled, id, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelForClosureTx cancels every booking whose show plays on the given
// date at a theater belonging to the named cinema.  The cascade is a single
// set-based UPDATE across the cinema -> theaters -> plays -> shows ->
// bookings join, so it applies atomically; partial application cannot occur.
// Date is in "2006-01-02" form.
func (r *BookingRepo) CancelForClosureTx(ctx context.Context, tx *sql.Tx, date, cinemaName string) (int64, error) {
	const q = `UPDATE bookings b
	           JOIN shows s    ON s.id = b.show_id
	           JOIN plays p    ON p.show_id = s.id
	           JOIN theaters t ON t.id = p.theater_id
	           JOIN cinemas c  ON c.id = t.cinema_id
	           SET b.status = ?
	           WHERE s.show_date = ? AND c.name = ? AND b.status <> ?`
	res, err := tx.ExecContext(ctx, q, StatusCancelled, date, cinemaName, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteCancelledTx removes every cancelled booking.  Callers must delete
// dependent payments first or the statement fails on the foreign key.
func (r *BookingRepo) DeleteCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	const q = `DELETE FROM bookings WHERE status = ?`
	res, err := tx.ExecContext(ctx, q, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteForShowsOnDateTx removes every booking attached to a show playing
// on the given date.  Used by the show-removal cascade after payments have
// been deleted.
func (r *BookingRepo) DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	const q = `DELETE b FROM bookings b
	           JOIN shows s ON s.id = b.show_id
	           WHERE s.show_date = ?`
	res, err := tx.ExecContext(ctx, q, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
