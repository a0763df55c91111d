package repository // repository for the show-seat ledger

import (
	"context"
	"database/sql"
	"errors"
)

// ShowSeatRepo encapsulates database operations on show_seats.  Each row
// assigns and prices one seat for one show; booking_id is NULL while the
// seat is free.  All seat state changes flow through this type; the
// conditional updates here are the only synchronization primitive the
// ledger relies on.
type ShowSeatRepo struct {
	db *sql.DB
}

// NewShowSeatRepo constructs a ShowSeatRepo given a DB handle.
func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo {
	return &ShowSeatRepo{db: db}
}

// ClaimTx attempts to assign a seat to a booking.  The update is restricted
// to rows whose booking_id IS NULL, so it acts as an atomic compare-and-set:
// under concurrent claims for the same seat, exactly one caller sees one
// affected row and every other caller sees zero.  The caller interprets a
// zero count as the seat being unavailable.
func (r *ShowSeatRepo) ClaimTx(ctx context.Context, tx *sql.Tx, seatID, bookingID uint64) (int64, error) {
	const q = `UPDATE show_seats SET booking_id = ? WHERE id = ? AND booking_id IS NULL`
	res, err := tx.ExecContext(ctx, q, bookingID, seatID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// OwnedPriceTx returns the price of a seat as currently owned by the given
// booking.  It returns ErrSeatNotOwned when the booking does not hold the
// seat.
func (r *ShowSeatRepo) OwnedPriceTx(ctx context.Context, tx *sql.Tx, bookingID, seatID uint64) (uint32, error) {
	const q = `SELECT price_cents FROM show_seats WHERE id = ? AND booking_id = ?`
	var price uint32
	if err := tx.QueryRowContext(ctx, q, seatID, bookingID).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSeatNotOwned
		}
		return 0, err
	}
	return price, nil
}

// PriceTx returns the current price of a seat regardless of ownership.
func (r *ShowSeatRepo) PriceTx(ctx context.Context, tx *sql.Tx, seatID uint64) (uint32, error) {
	const q = `SELECT price_cents FROM show_seats WHERE id = ?`
	var price uint32
	if err := tx.QueryRowContext(ctx, q, seatID).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSeatUnavailable
		}
		return 0, err
	}
	return price, nil
}

// ReleaseTx frees a seat, but only where booking, seat and price still match
// the values the caller observed.  The price predicate prevents releasing a
// seat whose state changed between the caller's lookup and this statement.
func (r *ShowSeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, bookingID, seatID uint64, priceCents uint32) (int64, error) {
	const q = `UPDATE show_seats SET booking_id = NULL WHERE id = ? AND booking_id = ? AND price_cents = ?`
	res, err := tx.ExecContext(ctx, q, seatID, bookingID, priceCents)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseForCancelledTx frees every seat whose owning booking has been
// cancelled.  A single set-based statement, used by the optional
// post-cancellation hook.
func (r *ShowSeatRepo) ReleaseForCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	const q = `UPDATE show_seats ss
	           JOIN bookings b ON b.id = ss.booking_id
	           SET ss.booking_id = NULL
	           WHERE b.status = ?`
	res, err := tx.ExecContext(ctx, q, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseByBookingTx frees all seats held by a single booking.
func (r *ShowSeatRepo) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error) {
	const q = `UPDATE show_seats SET booking_id = NULL WHERE booking_id = ?`
	res, err := tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteForShowsOnDateTx removes the ledger rows of every show playing on
// the given date.  Used by the show-removal cascade once bookings are gone.
func (r *ShowSeatRepo) DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	const q = `DELETE ss FROM show_seats ss
	           JOIN shows s ON s.id = ss.show_id
	           WHERE s.show_date = ?`
	res, err := tx.ExecContext(ctx, q, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
