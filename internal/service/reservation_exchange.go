package service

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ReservationExchange moves a booking's seat assignment from one show seat
// to another.  The claim, price lookup and release run inside a single
// transaction: when any step fails the rollback undoes the claim, so the
// swap either fully lands or leaves both seats exactly as they were.
type ReservationExchange struct {
	tx        TxRunner
	seats     SeatLedger
	publisher EventPublisher
}

// NewReservationExchange constructs a ReservationExchange.  publisher may
// be nil when event publishing is disabled.
func NewReservationExchange(tx TxRunner, seats SeatLedger, publisher EventPublisher) *ReservationExchange {
	if tx == nil || seats == nil {
		panic("nil dependency passed to NewReservationExchange")
	}
	return &ReservationExchange{tx: tx, seats: seats, publisher: publisher}
}

// SwapSeat exchanges fromSeatID for toSeatID on the given booking.
//
// Step 1 claims the target seat with an update restricted to
// booking_id IS NULL; a zero count means the seat is owned or missing and
// the swap stops with ErrSeatUnavailable.  Under concurrent swaps for the
// same target seat, the row-level atomicity of that update guarantees that
// exactly one caller wins.
//
// Step 2 looks up the price of the source seat as owned by this booking;
// step 3 releases the source seat guarded by booking, seat and that price,
// so a concurrent change between the steps makes the release miss and the
// whole transaction roll back.
func (s *ReservationExchange) SwapSeat(ctx context.Context, bookingID, fromSeatID, toSeatID uint64) error {
	var fromPrice, toPrice uint32
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		claimed, err := s.seats.ClaimTx(ctx, tx, toSeatID, bookingID)
		if err != nil {
			return err
		}
		if claimed == 0 {
			return repository.ErrSeatUnavailable
		}
		fromPrice, err = s.seats.OwnedPriceTx(ctx, tx, bookingID, fromSeatID)
		if err != nil {
			return err
		}
		toPrice, err = s.seats.PriceTx(ctx, tx, toSeatID)
		if err != nil {
			return err
		}
		released, err := s.seats.ReleaseTx(ctx, tx, bookingID, fromSeatID, fromPrice)
		if err != nil {
			return err
		}
		if released == 0 {
			return repository.ErrSeatNotOwned
		}
		return nil
	})
	if err != nil {
		return err
	}
	if toPrice != fromPrice {
		// Price fairness is assumed, not enforced: the swap stands, but a
		// crossing of price levels is worth surfacing.
		logrus.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"from_seat":  fromSeatID,
			"to_seat":    toSeatID,
			"from_price": fromPrice,
			"to_price":   toPrice,
		}).Warn("seat swap crossed price levels")
	}
	logrus.WithFields(logrus.Fields{
		"op":         "swap_seat",
		"booking_id": bookingID,
		"from_seat":  fromSeatID,
		"to_seat":    toSeatID,
	}).Info("seat swap applied")
	if s.publisher != nil {
		ev := queue.SeatSwappedEvent{
			BookingID:  bookingID,
			FromSeatID: fromSeatID,
			ToSeatID:   toSeatID,
			PriceCents: fromPrice,
		}
		if err := s.publisher.PublishSeatSwapped(ctx, ev); err != nil {
			logrus.WithError(err).Warn("seat.swapped event not published")
		}
	}
	return nil
}
