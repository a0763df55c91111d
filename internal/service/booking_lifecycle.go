package service

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/queue"
)

// BookingLifecycle owns booking status transitions and orchestrates
// cascading cancellations.  Cancellation statements are set-based and run
// inside a transaction together with the optional seat release, so either
// the whole cascade lands or none of it does.
type BookingLifecycle struct {
	tx        TxRunner
	bookings  BookingStore
	seats     SeatLedger
	publisher EventPublisher
	// releaseSeats enables the post-cancellation hook that frees the seats
	// of cancelled bookings in the same transaction.  Off by default: bulk
	// cancellation historically leaves seat ownership untouched.
	releaseSeats bool
}

// NewBookingLifecycle constructs a BookingLifecycle.  publisher may be nil
// when event publishing is disabled.
func NewBookingLifecycle(tx TxRunner, bookings BookingStore, seats SeatLedger, publisher EventPublisher, releaseSeats bool) *BookingLifecycle {
	if tx == nil || bookings == nil || seats == nil {
		panic("nil dependency passed to NewBookingLifecycle")
	}
	return &BookingLifecycle{
		tx:           tx,
		bookings:     bookings,
		seats:        seats,
		publisher:    publisher,
		releaseSeats: releaseSeats,
	}
}

// CancelAllPending transitions every pending booking to cancelled and
// returns the number of bookings affected.  A zero count means nothing
// matched; it is not an error.
func (s *BookingLifecycle) CancelAllPending(ctx context.Context) (int64, error) {
	var affected int64
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		n, err := s.bookings.CancelAllPendingTx(ctx, tx)
		if err != nil {
			return err
		}
		affected = n
		return s.releaseCancelledSeats(ctx, tx, n)
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"op": "cancel_all_pending", "cancelled": affected}).Info("pending bookings cancelled")
	s.publishCancelled(ctx, queue.BookingCancelledEvent{Scope: queue.ScopePending, Cancelled: affected})
	return affected, nil
}

// CancelBooking transitions a single booking to cancelled regardless of its
// current status.  A missing or already-cancelled ID yields a zero count
// with a nil error, so repeat calls are safe no-ops.
func (s *BookingLifecycle) CancelBooking(ctx context.Context, bookingID uint64) (int64, error) {
	var affected int64
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		n, err := s.bookings.CancelByIDTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		affected = n
		if s.releaseSeats && n > 0 {
			if _, err := s.seats.ReleaseByBookingTx(ctx, tx, bookingID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"op": "cancel_booking", "booking_id": bookingID, "cancelled": affected}).Info("booking cancellation applied")
	if affected > 0 {
		s.publishCancelled(ctx, queue.BookingCancelledEvent{Scope: queue.ScopeSingle, BookingID: bookingID, Cancelled: affected})
	}
	return affected, nil
}

// CancelBookingsForClosure cancels every booking whose show plays on the
// given date at a theater of the named cinema.  The cascade is one
// set-based statement; partial application cannot occur.
func (s *BookingLifecycle) CancelBookingsForClosure(ctx context.Context, date, cinemaName string) (int64, error) {
	var affected int64
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		n, err := s.bookings.CancelForClosureTx(ctx, tx, date, cinemaName)
		if err != nil {
			return err
		}
		affected = n
		return s.releaseCancelledSeats(ctx, tx, n)
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"op":        "cancel_for_closure",
		"date":      date,
		"cinema":    cinemaName,
		"cancelled": affected,
	}).Info("closure cancellation applied")
	s.publishCancelled(ctx, queue.BookingCancelledEvent{
		Scope:      queue.ScopeClosure,
		Date:       date,
		CinemaName: cinemaName,
		Cancelled:  affected,
	})
	return affected, nil
}

// releaseCancelledSeats runs the post-cancellation hook when enabled and at
// least one booking changed state.
func (s *BookingLifecycle) releaseCancelledSeats(ctx context.Context, tx *sql.Tx, cancelled int64) error {
	if !s.releaseSeats || cancelled == 0 {
		return nil
	}
	_, err := s.seats.ReleaseForCancelledTx(ctx, tx)
	return err
}

func (s *BookingLifecycle) publishCancelled(ctx context.Context, ev queue.BookingCancelledEvent) {
	if s.publisher == nil {
		return
	}
	ev.SeatsReleased = s.releaseSeats
	if err := s.publisher.PublishBookingCancelled(ctx, ev); err != nil {
		logrus.WithError(err).Warn("booking.cancelled event not published")
	}
}
