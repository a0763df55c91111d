package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
)

type cleanupStub struct {
	purgeFn         func(ctx context.Context) error
	removeShowsFn   func(ctx context.Context, date string) (int64, error)
	removePaymentFn func(ctx context.Context, id uint64) (int64, error)
}

func (s *cleanupStub) PurgeCancelledBookings(ctx context.Context) error {
	return s.purgeFn(ctx)
}

func (s *cleanupStub) RemoveShowsOnDate(ctx context.Context, date string) (int64, error) {
	return s.removeShowsFn(ctx, date)
}

func (s *cleanupStub) RemovePayment(ctx context.Context, id uint64) (int64, error) {
	return s.removePaymentFn(ctx, id)
}

func TestPurgeCancelledReturnsNoContent(t *testing.T) {
	e := echo.New()
	h := handler.NewMaintenanceHandler(&cleanupStub{purgeFn: func(context.Context) error {
		return nil
	}})

	c, rec := doJSON(e, http.MethodPost, "/v1/maintenance/purge-cancelled", "", nil)

	require.NoError(t, h.PurgeCancelled(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPurgeCancelledReportsFailure(t *testing.T) {
	e := echo.New()
	h := handler.NewMaintenanceHandler(&cleanupStub{purgeFn: func(context.Context) error {
		return errors.New("driver: bad connection")
	}})

	c, rec := doJSON(e, http.MethodPost, "/v1/maintenance/purge-cancelled", "", nil)

	require.NoError(t, h.PurgeCancelled(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRemoveShowsOnDateRequiresDate(t *testing.T) {
	e := echo.New()
	h := handler.NewMaintenanceHandler(&cleanupStub{removeShowsFn: func(context.Context, string) (int64, error) {
		t.Fatal("service must not be called")
		return 0, nil
	}})

	c, rec := doJSON(e, http.MethodDelete, "/v1/shows", "", nil)

	require.NoError(t, h.RemoveShowsOnDate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveShowsOnDateReportsCount(t *testing.T) {
	e := echo.New()
	h := handler.NewMaintenanceHandler(&cleanupStub{removeShowsFn: func(_ context.Context, date string) (int64, error) {
		assert.Equal(t, "2019-02-02", date)
		return 2, nil
	}})

	c, rec := doJSON(e, http.MethodDelete, "/v1/shows?date=2019-02-02", "", nil)

	require.NoError(t, h.RemoveShowsOnDate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":2`)
}

func TestRemovePaymentReportsDeleted(t *testing.T) {
	e := echo.New()
	h := handler.NewMaintenanceHandler(&cleanupStub{removePaymentFn: func(_ context.Context, id uint64) (int64, error) {
		assert.Equal(t, uint64(9), id)
		return 1, nil
	}})

	c, rec := doJSON(e, http.MethodDelete, "/v1/payments/9", "", map[string]string{"id": "9"})

	require.NoError(t, h.RemovePayment(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":1`)
}

func TestRemovePaymentRejectsBadID(t *testing.T) {
	e := echo.New()
	h := handler.NewMaintenanceHandler(&cleanupStub{})

	c, rec := doJSON(e, http.MethodDelete, "/v1/payments/zero", "", map[string]string{"id": "zero"})

	require.NoError(t, h.RemovePayment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
