package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
)

// RegisterRoutes wires every endpoint onto the provided Echo instance.  The
// health check stays outside the rate-limited group so probes are never
// throttled; everything under /v1 runs through the limiter.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler, m *handler.MaintenanceHandler, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	if limiter != nil {
		v1.Use(limiter)
	}

	// Booking lifecycle
	v1.POST("/bookings", b.CreateBooking)
	v1.DELETE("/bookings/:id", b.CancelBooking)
	v1.POST("/bookings/cancel-pending", b.CancelPending)
	v1.POST("/bookings/:id/seat-swap", b.SwapSeat)
	v1.POST("/closures", b.CancelForClosure)

	// Maintenance
	v1.POST("/maintenance/purge-cancelled", m.PurgeCancelled)
	v1.DELETE("/shows", m.RemoveShowsOnDate)
	v1.DELETE("/payments/:id", m.RemovePayment)
}
