package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// CleanupService purges cancelled bookings and runs the show-removal and
// payment-removal operations.
type CleanupService interface {
	PurgeCancelledBookings(ctx context.Context) error
	RemoveShowsOnDate(ctx context.Context, date string) (int64, error)
	RemovePayment(ctx context.Context, paymentID uint64) (int64, error)
}

// MaintenanceHandler exposes the destructive maintenance operations.
type MaintenanceHandler struct {
	Cleanup CleanupService
}

// NewMaintenanceHandler constructs a MaintenanceHandler.
func NewMaintenanceHandler(cleanup CleanupService) *MaintenanceHandler {
	if cleanup == nil {
		panic("nil cleanup service passed to NewMaintenanceHandler")
	}
	return &MaintenanceHandler{Cleanup: cleanup}
}

// PurgeCancelled handles POST /v1/maintenance/purge-cancelled.  Payments of
// cancelled bookings go first, then the bookings; both or neither.
func (h *MaintenanceHandler) PurgeCancelled(c echo.Context) error {
	if err := h.Cleanup.PurgeCancelledBookings(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to purge cancelled bookings"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveShowsOnDate handles DELETE /v1/shows?date=YYYY-MM-DD.
func (h *MaintenanceHandler) RemoveShowsOnDate(c echo.Context) error {
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	n, err := h.Cleanup.RemoveShowsOnDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": n})
}

// RemovePayment handles DELETE /v1/payments/:id.  A zero deleted count is
// reported to the caller rather than treated as an error.
func (h *MaintenanceHandler) RemovePayment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	n, err := h.Cleanup.RemovePayment(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove payment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
