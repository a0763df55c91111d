package repository

import (
	"context"
	"database/sql"
)

// Payment mirrors the payments table.  A payment row must not outlive its
// booking; rows referencing a cancelled booking are cleanup candidates.
type Payment struct {
	ID          uint64 // ID is the primary key of the payments row
	BookingID   uint64 // BookingID references the owning booking
	Method      string // Method is the payment method label
	AmountCents uint32 // AmountCents is the amount charged
	PaidAt      string // PaidAt is the DB timestamp of the payment
}

// PaymentRepo encapsulates database operations on payments.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the given DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DeleteForCancelledTx removes every payment whose booking has been
// cancelled.  It must run before the cancelled bookings themselves are
// deleted to satisfy the foreign key from payments to bookings.
func (r *PaymentRepo) DeleteForCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	const q = `DELETE p FROM payments p
	           JOIN bookings b ON b.id = p.booking_id
	           WHERE b.status = ?`
	res, err := tx.ExecContext(ctx, q, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByID removes a single payment row.  A zero affected count means the
// ID did not exist; the caller decides how to report that.
func (r *PaymentRepo) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	const q = `DELETE FROM payments WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteForShowsOnDateTx removes the payments of every booking attached to
// a show playing on the given date.  First step of the show-removal cascade.
func (r *PaymentRepo) DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	const q = `DELETE p FROM payments p
	           JOIN bookings b ON b.id = p.booking_id
	           JOIN shows s    ON s.id = b.show_id
	           WHERE s.show_date = ?`
	res, err := tx.ExecContext(ctx, q, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
