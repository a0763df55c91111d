package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func newCleanup(tx service.TxRunner, payments *mockPaymentStore, bookings *mockBookingJanitor, seats *mockSeatJanitor, shows *mockShowStore) *service.Cleanup {
	return service.NewCleanup(tx, payments, bookings, seats, shows)
}

func TestPurgeDeletesPaymentsBeforeBookings(t *testing.T) {
	ctx := context.Background()
	tx := &txRunnerStub{}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingJanitor)
	seats := new(mockSeatJanitor)
	shows := new(mockShowStore)

	var order []string
	payments.On("DeleteForCancelledTx", ctx, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "payments")
	}).Return(int64(2), nil)
	bookings.On("DeleteCancelledTx", ctx, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "bookings")
	}).Return(int64(3), nil)

	s := newCleanup(tx, payments, bookings, seats, shows)
	err := s.PurgeCancelledBookings(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []string{"payments", "bookings"}, order)
}

func TestPurgeStopsWhenPaymentDeleteFails(t *testing.T) {
	ctx := context.Background()
	tx := &txRunnerStub{}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingJanitor)
	seats := new(mockSeatJanitor)
	shows := new(mockShowStore)

	delErr := errors.New("integrity violation")
	payments.On("DeleteForCancelledTx", ctx, mock.Anything).Return(int64(0), delErr)

	s := newCleanup(tx, payments, bookings, seats, shows)
	err := s.PurgeCancelledBookings(ctx)

	assert.ErrorIs(t, err, delErr)
	// Fail fast: the booking delete must never start.
	bookings.AssertNotCalled(t, "DeleteCancelledTx", mock.Anything, mock.Anything)
}

func TestRemoveShowsOnDateCascadesInOrder(t *testing.T) {
	ctx := context.Background()
	tx := &txRunnerStub{}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingJanitor)
	seats := new(mockSeatJanitor)
	shows := new(mockShowStore)

	const date = "2019-02-02"
	var order []string
	payments.On("DeleteForShowsOnDateTx", ctx, mock.Anything, date).Run(func(mock.Arguments) {
		order = append(order, "payments")
	}).Return(int64(1), nil)
	bookings.On("DeleteForShowsOnDateTx", ctx, mock.Anything, date).Run(func(mock.Arguments) {
		order = append(order, "bookings")
	}).Return(int64(2), nil)
	seats.On("DeleteForShowsOnDateTx", ctx, mock.Anything, date).Run(func(mock.Arguments) {
		order = append(order, "show_seats")
	}).Return(int64(8), nil)
	shows.On("DeletePlaysOnDateTx", ctx, mock.Anything, date).Run(func(mock.Arguments) {
		order = append(order, "plays")
	}).Return(int64(2), nil)
	shows.On("DeleteOnDateTx", ctx, mock.Anything, date).Run(func(mock.Arguments) {
		order = append(order, "shows")
	}).Return(int64(2), nil)

	s := newCleanup(tx, payments, bookings, seats, shows)
	n, err := s.RemoveShowsOnDate(ctx, date)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, []string{"payments", "bookings", "show_seats", "plays", "shows"}, order)
}

func TestRemoveShowsOnDateStopsMidCascade(t *testing.T) {
	ctx := context.Background()
	tx := &txRunnerStub{}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingJanitor)
	seats := new(mockSeatJanitor)
	shows := new(mockShowStore)

	const date = "2019-02-02"
	delErr := errors.New("driver: bad connection")
	payments.On("DeleteForShowsOnDateTx", ctx, mock.Anything, date).Return(int64(0), nil)
	bookings.On("DeleteForShowsOnDateTx", ctx, mock.Anything, date).Return(int64(0), delErr)

	s := newCleanup(tx, payments, bookings, seats, shows)
	n, err := s.RemoveShowsOnDate(ctx, date)

	assert.ErrorIs(t, err, delErr)
	assert.Zero(t, n)
	seats.AssertNotCalled(t, "DeleteForShowsOnDateTx", mock.Anything, mock.Anything, mock.Anything)
	shows.AssertNotCalled(t, "DeleteOnDateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemovePaymentReportsMiss(t *testing.T) {
	ctx := context.Background()
	tx := &txRunnerStub{}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingJanitor)
	seats := new(mockSeatJanitor)
	shows := new(mockShowStore)

	payments.On("DeleteByID", ctx, uint64(99)).Return(int64(0), nil)

	s := newCleanup(tx, payments, bookings, seats, shows)
	n, err := s.RemovePayment(ctx, 99)

	assert.NoError(t, err)
	assert.Zero(t, n)
}
