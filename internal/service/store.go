// Package service implements the booking lifecycle: status transitions,
// seat exchanges and cleanup of cancelled bookings.  Services orchestrate
// the repository layer inside transactions and interpret affected-row
// counts to decide success or failure.
package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// TxRunner executes a function inside a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// BookingStore is the slice of the booking repository the lifecycle
// manager needs.
type BookingStore interface {
	CancelAllPendingTx(ctx context.Context, tx *sql.Tx) (int64, error)
	CancelByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (int64, error)
	CancelForClosureTx(ctx context.Context, tx *sql.Tx, date, cinemaName string) (int64, error)
}

// SeatLedger is the authoritative show-seat -> booking mapping.  All seat
// state changes flow through it.
type SeatLedger interface {
	ClaimTx(ctx context.Context, tx *sql.Tx, seatID, bookingID uint64) (int64, error)
	OwnedPriceTx(ctx context.Context, tx *sql.Tx, bookingID, seatID uint64) (uint32, error)
	PriceTx(ctx context.Context, tx *sql.Tx, seatID uint64) (uint32, error)
	ReleaseTx(ctx context.Context, tx *sql.Tx, bookingID, seatID uint64, priceCents uint32) (int64, error)
	ReleaseForCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error)
	ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error)
}

// PaymentStore is the slice of the payment repository the cleanup
// coordinator needs.
type PaymentStore interface {
	DeleteForCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
	DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error)
}

// BookingJanitor covers the destructive booking statements used only by
// the cleanup coordinator.
type BookingJanitor interface {
	DeleteCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error)
	DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error)
}

// SeatJanitor removes ledger rows during the show-removal cascade.
type SeatJanitor interface {
	DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error)
}

// ShowStore covers the show-removal statements.
type ShowStore interface {
	DeletePlaysOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error)
	DeleteOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error)
}

// EventPublisher sends domain events to the message broker.  Publishing is
// best effort: services log failures and carry on.
type EventPublisher interface {
	PublishBookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
	PublishSeatSwapped(ctx context.Context, ev queue.SeatSwappedEvent) error
}

// Compile-time checks that the concrete implementations satisfy the
// interfaces above.
var (
	_ TxRunner       = (*database.TxRunner)(nil)
	_ BookingStore   = (*repository.BookingRepo)(nil)
	_ BookingJanitor = (*repository.BookingRepo)(nil)
	_ SeatLedger     = (*repository.ShowSeatRepo)(nil)
	_ SeatJanitor    = (*repository.ShowSeatRepo)(nil)
	_ PaymentStore   = (*repository.PaymentRepo)(nil)
	_ ShowStore      = (*repository.ShowRepo)(nil)
	_ EventPublisher = (*queue.Publisher)(nil)
)
