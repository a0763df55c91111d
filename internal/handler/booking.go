// Package handler exposes the booking lifecycle over HTTP.  Handlers parse
// and validate input, delegate to the services and map sentinel errors to
// status codes.  Affected-row counts are surfaced in responses so callers
// can tell "nothing matched" apart from a store error.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// LifecycleService covers the booking status transitions.
type LifecycleService interface {
	CancelAllPending(ctx context.Context) (int64, error)
	CancelBooking(ctx context.Context, bookingID uint64) (int64, error)
	CancelBookingsForClosure(ctx context.Context, date, cinemaName string) (int64, error)
}

// ExchangeService swaps a booking's reserved seat for another.
type ExchangeService interface {
	SwapSeat(ctx context.Context, bookingID, fromSeatID, toSeatID uint64) error
}

// BookingCreator inserts new bookings (entry operation).
type BookingCreator interface {
	Create(ctx context.Context, b *repository.Booking) error
}

// ShowReader resolves show IDs so a booking is never created against a show
// that does not exist.
type ShowReader interface {
	GetByID(ctx context.Context, id uint64) (*repository.Show, error)
}

// BookingHandler groups the services needed by the booking endpoints.
type BookingHandler struct {
	Lifecycle LifecycleService
	Exchange  ExchangeService
	Bookings  BookingCreator
	Shows     ShowReader
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must be
// non-nil.
func NewBookingHandler(lifecycle LifecycleService, exchange ExchangeService, bookings BookingCreator, shows ShowReader) *BookingHandler {
	if lifecycle == nil || exchange == nil || bookings == nil || shows == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Lifecycle: lifecycle, Exchange: exchange, Bookings: bookings, Shows: shows}
}

// CreateBooking handles POST /v1/bookings.  The booking ID is supplied by
// the caller; BookedAt accepts RFC3339 and is stored in DB format.  The
// referenced show must exist, checked up front so the caller gets a 404
// instead of a foreign-key violation.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body struct {
		ID        uint64 `json:"id"`
		Status    string `json:"status"`
		BookedAt  string `json:"booked_at"`
		NumSeats  uint32 `json:"num_seats"`
		ShowID    uint64 `json:"show_id"`
		UserEmail string `json:"user_email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ID == 0 || body.ShowID == 0 || body.UserEmail == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id, show_id and user_email are required"})
	}
	switch body.Status {
	case "", repository.StatusPending, repository.StatusPaid:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	bookedAt := time.Now().UTC()
	if body.BookedAt != "" {
		t, err := time.Parse(time.RFC3339, body.BookedAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booked_at must be RFC3339"})
		}
		bookedAt = t.UTC()
	}
	if _, err := h.Shows.GetByID(c.Request().Context(), body.ShowID); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	b := &repository.Booking{
		ID:        body.ID,
		Status:    body.Status,
		BookedAt:  bookedAt.Format("2006-01-02 15:04:05"),
		NumSeats:  body.NumSeats,
		ShowID:    body.ShowID,
		UserEmail: body.UserEmail,
	}
	if err := h.Bookings.Create(c.Request().Context(), b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": b.ID, "status": b.Status})
}

// CancelBooking handles DELETE /v1/bookings/:id.  Cancelling an unknown or
// already-cancelled booking reports zero affected rows with a 200; the
// operation is idempotent.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	n, err := h.Lifecycle.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}

// CancelPending handles POST /v1/bookings/cancel-pending.
func (h *BookingHandler) CancelPending(c echo.Context) error {
	n, err := h.Lifecycle.CancelAllPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel pending bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}

// CancelForClosure handles POST /v1/closures.  The body names a date and a
// cinema; every booking on a matching show is cancelled in one statement.
func (h *BookingHandler) CancelForClosure(c echo.Context) error {
	var body struct {
		Date       string `json:"date"`
		CinemaName string `json:"cinema_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CinemaName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cinema_name is required"})
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	n, err := h.Lifecycle.CancelBookingsForClosure(c.Request().Context(), body.Date, body.CinemaName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel bookings for closure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}

// SwapSeat handles POST /v1/bookings/:id/seat-swap.  An owned target seat
// yields 409; a source seat the booking does not hold yields 404.
func (h *BookingHandler) SwapSeat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		FromSeatID uint64 `json:"from_seat_id"`
		ToSeatID   uint64 `json:"to_seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FromSeatID == 0 || body.ToSeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from_seat_id and to_seat_id are required"})
	}
	if body.FromSeatID == body.ToSeatID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must differ"})
	}
	err = h.Exchange.SwapSeat(c.Request().Context(), id, body.FromSeatID, body.ToSeatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "target seat unavailable"})
		}
		if errors.Is(err, repository.ErrSeatNotOwned) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking does not hold the source seat"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "seat_id": body.ToSeatID})
}
