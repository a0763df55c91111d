package service

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// Cleanup purges cancelled bookings together with their dependent payment
// rows, and performs the show-removal cascade.  Deletion order follows the
// foreign keys: payments before bookings, bookings before shows.
type Cleanup struct {
	tx       TxRunner
	payments PaymentStore
	bookings BookingJanitor
	seats    SeatJanitor
	shows    ShowStore
}

// NewCleanup constructs a Cleanup coordinator.
func NewCleanup(tx TxRunner, payments PaymentStore, bookings BookingJanitor, seats SeatJanitor, shows ShowStore) *Cleanup {
	if tx == nil || payments == nil || bookings == nil || seats == nil || shows == nil {
		panic("nil dependency passed to NewCleanup")
	}
	return &Cleanup{tx: tx, payments: payments, bookings: bookings, seats: seats, shows: shows}
}

// PurgeCancelledBookings deletes all payments referencing a cancelled
// booking, then deletes the cancelled bookings.  Both deletions run in one
// transaction; when the payment deletion fails the booking deletion never
// starts, so a crash between the two cannot orphan either table.
func (s *Cleanup) PurgeCancelledBookings(ctx context.Context) error {
	var payments, bookings int64
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		n, err := s.payments.DeleteForCancelledTx(ctx, tx)
		if err != nil {
			return err
		}
		payments = n
		n, err = s.bookings.DeleteCancelledTx(ctx, tx)
		if err != nil {
			return err
		}
		bookings = n
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"op":       "purge_cancelled",
		"payments": payments,
		"bookings": bookings,
	}).Info("cancelled bookings purged")
	return nil
}

// RemoveShowsOnDate removes every show playing on the given date together
// with everything hanging off it: payments, bookings, ledger rows and play
// assignments, in that order, inside one transaction.  Returns the number
// of shows removed.
func (s *Cleanup) RemoveShowsOnDate(ctx context.Context, date string) (int64, error) {
	var removed int64
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.payments.DeleteForShowsOnDateTx(ctx, tx, date); err != nil {
			return err
		}
		if _, err := s.bookings.DeleteForShowsOnDateTx(ctx, tx, date); err != nil {
			return err
		}
		if _, err := s.seats.DeleteForShowsOnDateTx(ctx, tx, date); err != nil {
			return err
		}
		if _, err := s.shows.DeletePlaysOnDateTx(ctx, tx, date); err != nil {
			return err
		}
		n, err := s.shows.DeleteOnDateTx(ctx, tx, date)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"op": "remove_shows", "date": date, "removed": removed}).Info("shows removed")
	return removed, nil
}

// RemovePayment deletes a single payment row by ID.  A zero count means the
// ID did not exist; the caller decides how to report that.
func (s *Cleanup) RemovePayment(ctx context.Context, paymentID uint64) (int64, error) {
	n, err := s.payments.DeleteByID(ctx, paymentID)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"op": "remove_payment", "payment_id": paymentID, "deleted": n}).Info("payment removal applied")
	return n, nil
}
