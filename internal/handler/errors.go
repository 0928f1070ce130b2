package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-inventory/internal/engine"
	"github.com/skyfare/flight-inventory/internal/store"
)

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// Insufficient availability is a 409 the booking workflow shows as "sold
// out"; concurrent-modification conflicts are retryable and get a 503
// with Retry-After so well-behaved clients back off and try again.
func writeEngineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrSeatCountRange) || errors.Is(err, engine.ErrUnknownSeatClass):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrInsufficientAvailability):
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient availability", "detail": err.Error()})
	case errors.Is(err, store.ErrInvalidCapacity):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrConcurrentModification):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "conflicting update in progress, retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
