package service_test

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/movie-ticket-booking/internal/queue"
)

// txRunnerStub invokes the callback without a real transaction.  The error
// contract mirrors database.TxRunner: a callback error propagates and
// nothing commits.
type txRunnerStub struct {
	beginErr error
	calls    int
}

func (s *txRunnerStub) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	s.calls++
	return fn(nil)
}

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) CancelAllPendingTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingStore) CancelByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (int64, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingStore) CancelForClosureTx(ctx context.Context, tx *sql.Tx, date, cinemaName string) (int64, error) {
	args := m.Called(ctx, tx, date, cinemaName)
	return args.Get(0).(int64), args.Error(1)
}

type mockSeatLedger struct{ mock.Mock }

func (m *mockSeatLedger) ClaimTx(ctx context.Context, tx *sql.Tx, seatID, bookingID uint64) (int64, error) {
	args := m.Called(ctx, tx, seatID, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSeatLedger) OwnedPriceTx(ctx context.Context, tx *sql.Tx, bookingID, seatID uint64) (uint32, error) {
	args := m.Called(ctx, tx, bookingID, seatID)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *mockSeatLedger) PriceTx(ctx context.Context, tx *sql.Tx, seatID uint64) (uint32, error) {
	args := m.Called(ctx, tx, seatID)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *mockSeatLedger) ReleaseTx(ctx context.Context, tx *sql.Tx, bookingID, seatID uint64, priceCents uint32) (int64, error) {
	args := m.Called(ctx, tx, bookingID, seatID, priceCents)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSeatLedger) ReleaseForCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSeatLedger) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error) {
	args := m.Called(ctx, tx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type mockPaymentStore struct{ mock.Mock }

func (m *mockPaymentStore) DeleteForCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPaymentStore) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPaymentStore) DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	args := m.Called(ctx, tx, date)
	return args.Get(0).(int64), args.Error(1)
}

type mockBookingJanitor struct{ mock.Mock }

func (m *mockBookingJanitor) DeleteCancelledTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingJanitor) DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	args := m.Called(ctx, tx, date)
	return args.Get(0).(int64), args.Error(1)
}

type mockSeatJanitor struct{ mock.Mock }

func (m *mockSeatJanitor) DeleteForShowsOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	args := m.Called(ctx, tx, date)
	return args.Get(0).(int64), args.Error(1)
}

type mockShowStore struct{ mock.Mock }

func (m *mockShowStore) DeletePlaysOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	args := m.Called(ctx, tx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockShowStore) DeleteOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	args := m.Called(ctx, tx, date)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *mockPublisher) PublishSeatSwapped(ctx context.Context, ev queue.SeatSwappedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
