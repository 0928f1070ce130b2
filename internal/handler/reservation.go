package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-inventory/internal/engine"
	"github.com/skyfare/flight-inventory/internal/middleware"
	"github.com/skyfare/flight-inventory/internal/model"
)

// ReservationHandler serves the hold lifecycle: reserve, confirm,
// release, lookup and the expiry maintenance endpoints.
type ReservationHandler struct {
	Engine *engine.Engine
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(e *engine.Engine) *ReservationHandler {
	if e == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: e}
}

type reserveRequest struct {
	SeatClass  string `json:"seat_class" validate:"required"`
	Count      int    `json:"count" validate:"required,min=1,max=9"`
	TTLSeconds int    `json:"ttl_seconds" validate:"omitempty,min=1,max=3600"`
}

// Reserve handles POST /v1/flights/:id/inventory/:date/reserve. On
// success it returns the new hold together with the updated inventory
// snapshot.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	flightID, date, ok := flightParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id or date"})
	}
	var body reserveRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	class, known := model.ParseSeatClass(body.SeatClass)
	if !known {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat class: " + body.SeatClass})
	}
	ttl := time.Duration(body.TTLSeconds) * time.Second
	hold, inv, err := h.Engine.Reserve(c.Request().Context(), flightID, date, class, body.Count, ttl,
		middleware.Actor(c))
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"hold":      toHoldResponse(hold),
		"inventory": toInventoryResponse(inv),
	})
}

// Confirm handles POST /v1/holds/:holdId/confirm.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	holdID := c.Param("holdId")
	if holdID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing hold id"})
	}
	hold, err := h.Engine.Confirm(c.Request().Context(), holdID, middleware.Actor(c))
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(hold))
}

type releaseRequest struct {
	Reason string `json:"reason"`
}

// Release handles POST /v1/holds/:holdId/release. Releasing a hold that
// is already released or expired is a no-op and still returns 200.
func (h *ReservationHandler) Release(c echo.Context) error {
	holdID := c.Param("holdId")
	if holdID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing hold id"})
	}
	var body releaseRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	hold, err := h.Engine.Release(c.Request().Context(), holdID, body.Reason, middleware.Actor(c))
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(hold))
}

// GetHold handles GET /v1/holds/:holdId.
func (h *ReservationHandler) GetHold(c echo.Context) error {
	holdID := c.Param("holdId")
	if holdID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing hold id"})
	}
	hold, err := h.Engine.GetHold(c.Request().Context(), holdID)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(hold))
}

// ListExpired handles GET /v1/holds/expired. An optional ?as_of= RFC3339
// timestamp overrides the current time, which operators use to preview
// upcoming expirations.
func (h *ReservationHandler) ListExpired(c echo.Context) error {
	asOf := time.Now().UTC()
	if raw := c.QueryParam("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of, want RFC3339"})
		}
		asOf = parsed.UTC()
	}
	holds, err := h.Engine.ListExpired(c.Request().Context(), asOf)
	if err != nil {
		return writeEngineError(c, err)
	}
	out := make([]holdResponse, 0, len(holds))
	for _, hold := range holds {
		out = append(out, toHoldResponse(hold))
	}
	return c.JSON(http.StatusOK, echo.Map{"holds": out})
}

// Sweep handles POST /v1/holds/sweep. It runs one expiry pass
// immediately, the same work the background sweeper performs on its
// interval, and reports how many holds were reconciled.
func (h *ReservationHandler) Sweep(c echo.Context) error {
	n, err := h.Engine.SweepExpired(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reconciled": n})
}
