package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-inventory/internal/engine"
	"github.com/skyfare/flight-inventory/internal/middleware"
	"github.com/skyfare/flight-inventory/internal/model"
)

// InventoryHandler serves the capacity-store surface: availability reads,
// capacity/pricing upserts, status transitions and the audit read path.
// All methods assume JWT authentication has already been performed by
// middleware; the actor recorded on audit rows comes from the token
// subject.
type InventoryHandler struct {
	Engine *engine.Engine
}

// NewInventoryHandler constructs an InventoryHandler. The engine must be
// non-nil.
func NewInventoryHandler(e *engine.Engine) *InventoryHandler {
	if e == nil {
		panic("nil engine passed to NewInventoryHandler")
	}
	return &InventoryHandler{Engine: e}
}

// flightParams parses the :id and :date path parameters shared by the
// inventory routes.
func flightParams(c echo.Context) (uint64, time.Time, bool) {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || flightID == 0 {
		return 0, time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return 0, time.Time{}, false
	}
	return flightID, date, true
}

// GetInventory handles GET /v1/flights/:id/inventory/:date. It returns
// the capacity, availability and pricing for a flight-date.
func (h *InventoryHandler) GetInventory(c echo.Context) error {
	flightID, date, ok := flightParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id or date"})
	}
	inv, err := h.Engine.GetInventory(c.Request().Context(), flightID, date)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toInventoryResponse(inv))
}

type upsertInventoryRequest struct {
	Capacity map[string]int   `json:"capacity" validate:"required,min=1"`
	Pricing  map[string]int64 `json:"pricing" validate:"required,min=1"`
	Reason   string           `json:"reason" validate:"required"`
}

// parseClassCounts converts a string-keyed wire map into the enum-keyed
// model map, reporting the first unknown class name.
func parseClassCounts(in map[string]int) (model.ClassCounts, string) {
	out := make(model.ClassCounts, len(in))
	for k, v := range in {
		class, known := model.ParseSeatClass(k)
		if !known {
			return nil, k
		}
		out[class] = v
	}
	return out, ""
}

func parseClassPrices(in map[string]int64) (model.ClassPrices, string) {
	out := make(model.ClassPrices, len(in))
	for k, v := range in {
		class, known := model.ParseSeatClass(k)
		if !known {
			return nil, k
		}
		out[class] = v
	}
	return out, ""
}

// UpsertInventory handles PUT /v1/flights/:id/inventory/:date. It creates
// the inventory row or overwrites capacity and pricing, re-deriving
// availability against outstanding holds.
func (h *InventoryHandler) UpsertInventory(c echo.Context) error {
	flightID, date, ok := flightParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id or date"})
	}
	var body upsertInventoryRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	capacity, bad := parseClassCounts(body.Capacity)
	if bad != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat class: " + bad})
	}
	pricing, bad := parseClassPrices(body.Pricing)
	if bad != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat class: " + bad})
	}
	inv, err := h.Engine.UpsertInventory(c.Request().Context(), flightID, date, capacity, pricing,
		middleware.Actor(c), body.Reason)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toInventoryResponse(inv))
}

type batchUpsertItem struct {
	FlightID   uint64           `json:"flight_id" validate:"required"`
	FlightDate string           `json:"flight_date" validate:"required"`
	Capacity   map[string]int   `json:"capacity" validate:"required,min=1"`
	Pricing    map[string]int64 `json:"pricing" validate:"required,min=1"`
	Reason     string           `json:"reason"`
}

type batchUpsertRequest struct {
	Items  []batchUpsertItem `json:"items" validate:"required,min=1,dive"`
	Reason string            `json:"reason"`
}

type batchUpsertResult struct {
	FlightID   uint64             `json:"flight_id"`
	FlightDate string             `json:"flight_date"`
	OK         bool               `json:"ok"`
	Inventory  *inventoryResponse `json:"inventory,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// BatchUpsert handles POST /v1/inventory/batch: a bulk capacity load
// across many flight-dates. Rows are applied independently, so one bad
// row reports its error in place and the rest still commit; the caller
// retries only the failed items.
func (h *InventoryHandler) BatchUpsert(c echo.Context) error {
	var body batchUpsertRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	items := make([]engine.BatchUpsertItem, 0, len(body.Items))
	out := make([]batchUpsertResult, len(body.Items))
	// engineIdx maps positions in items back to positions in out, so
	// rows rejected during parsing keep their slot in the response.
	engineIdx := make([]int, 0, len(body.Items))
	for i, it := range body.Items {
		out[i] = batchUpsertResult{FlightID: it.FlightID, FlightDate: it.FlightDate}
		date, err := time.Parse("2006-01-02", it.FlightDate)
		if err != nil {
			out[i].Error = "invalid flight_date, want YYYY-MM-DD"
			continue
		}
		capacity, bad := parseClassCounts(it.Capacity)
		if bad != "" {
			out[i].Error = "unknown seat class: " + bad
			continue
		}
		pricing, bad := parseClassPrices(it.Pricing)
		if bad != "" {
			out[i].Error = "unknown seat class: " + bad
			continue
		}
		reason := it.Reason
		if reason == "" {
			reason = body.Reason
		}
		items = append(items, engine.BatchUpsertItem{
			FlightID:   it.FlightID,
			FlightDate: date,
			Capacity:   capacity,
			Pricing:    pricing,
			Reason:     reason,
		})
		engineIdx = append(engineIdx, i)
	}

	results := h.Engine.UpsertInventoryBatch(c.Request().Context(), items, middleware.Actor(c))
	for j, res := range results {
		i := engineIdx[j]
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			continue
		}
		resp := toInventoryResponse(res.Inventory)
		out[i].OK = true
		out[i].Inventory = &resp
	}

	succeeded, failed := 0, 0
	for _, r := range out {
		if r.OK {
			succeeded++
		} else {
			failed++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"results":   out,
		"succeeded": succeeded,
		"failed":    failed,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE CANCELLED DELAYED"`
	Reason string `json:"reason" validate:"required"`
}

// UpdateStatus handles PUT /v1/flights/:id/inventory/:date/status. It
// transitions the flight-date between ACTIVE, CANCELLED and DELAYED.
func (h *InventoryHandler) UpdateStatus(c echo.Context) error {
	flightID, date, ok := flightParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id or date"})
	}
	var body updateStatusRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	inv, err := h.Engine.UpdateStatus(c.Request().Context(), flightID, date,
		model.FlightStatus(body.Status), middleware.Actor(c), body.Reason)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toInventoryResponse(inv))
}

// ListAuditByInventory handles GET /v1/flights/:id/inventory/:date/audit.
// It returns the append-ordered mutation history for one flight-date.
func (h *InventoryHandler) ListAuditByInventory(c echo.Context) error {
	flightID, date, ok := flightParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id or date"})
	}
	ctx := c.Request().Context()
	inv, err := h.Engine.GetInventory(ctx, flightID, date)
	if err != nil {
		return writeEngineError(c, err)
	}
	muts, err := h.Engine.ListMutationsByInventory(ctx, inv.ID)
	if err != nil {
		return writeEngineError(c, err)
	}
	out := make([]mutationResponse, 0, len(muts))
	for _, m := range muts {
		out = append(out, toMutationResponse(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"mutations": out})
}

// ListAudit handles GET /v1/audit. It filters the audit log either by
// ?kind= or by an ?from=/?to= RFC3339 range.
func (h *InventoryHandler) ListAudit(c echo.Context) error {
	ctx := c.Request().Context()
	if kind := c.QueryParam("kind"); kind != "" {
		switch model.MutationKind(kind) {
		case model.MutationManual, model.MutationReserve, model.MutationRelease,
			model.MutationConfirm, model.MutationExpire:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mutation kind: " + kind})
		}
		muts, err := h.Engine.ListMutationsByKind(ctx, model.MutationKind(kind))
		if err != nil {
			return writeEngineError(c, err)
		}
		out := make([]mutationResponse, 0, len(muts))
		for _, m := range muts {
			out = append(out, toMutationResponse(m))
		}
		return c.JSON(http.StatusOK, echo.Map{"mutations": out})
	}

	from, err1 := time.Parse(time.RFC3339, c.QueryParam("from"))
	to, err2 := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide kind= or from= and to= (RFC3339)"})
	}
	muts, err := h.Engine.ListMutationsByDateRange(ctx, from, to)
	if err != nil {
		return writeEngineError(c, err)
	}
	out := make([]mutationResponse, 0, len(muts))
	for _, m := range muts {
		out = append(out, toMutationResponse(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"mutations": out})
}
