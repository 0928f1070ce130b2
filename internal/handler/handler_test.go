package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-inventory/internal/engine"
	"github.com/skyfare/flight-inventory/internal/model"
	"github.com/skyfare/flight-inventory/internal/store/memory"
)

func newTestContext(t *testing.T, method, path, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func newHandlers(t *testing.T) (*InventoryHandler, *ReservationHandler, *engine.Engine) {
	t.Helper()
	eng := engine.New(memory.New(), nil, nil, engine.Config{})
	return NewInventoryHandler(eng), NewReservationHandler(eng), eng
}

func seedFlight(t *testing.T, eng *engine.Engine, flightID uint64, economy int) {
	t.Helper()
	date, _ := time.Parse("2006-01-02", "2026-09-15")
	_, err := eng.UpsertInventory(context.Background(), flightID, date,
		model.ClassCounts{model.ClassEconomy: economy},
		model.ClassPrices{model.ClassEconomy: 19900},
		"test", "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func setFlightParams(c echo.Context, id, date string) {
	c.SetParamNames("id", "date")
	c.SetParamValues(id, date)
}

func TestUpsertInventoryEndpoint(t *testing.T) {
	inv, _, _ := newHandlers(t)

	body := `{"capacity":{"ECONOMY":100,"BUSINESS":12},"pricing":{"ECONOMY":19900,"BUSINESS":74900},"reason":"schedule load"}`
	_, c, rec := newTestContext(t, http.MethodPut, "/v1/flights/512/inventory/2026-09-15", body)
	setFlightParams(c, "512", "2026-09-15")

	if err := inv.UpsertInventory(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp inventoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Available["ECONOMY"] != 100 || resp.Revision != 1 || resp.Status != "ACTIVE" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUpsertInventoryRejectsUnknownClass(t *testing.T) {
	inv, _, _ := newHandlers(t)

	body := `{"capacity":{"COACH":100},"pricing":{"COACH":19900},"reason":"x"}`
	_, c, rec := newTestContext(t, http.MethodPut, "/v1/flights/512/inventory/2026-09-15", body)
	setFlightParams(c, "512", "2026-09-15")

	if err := inv.UpsertInventory(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBatchUpsertEndpoint(t *testing.T) {
	inv, _, _ := newHandlers(t)

	body := `{"reason":"schedule load","items":[
		{"flight_id":601,"flight_date":"2026-09-15","capacity":{"ECONOMY":50},"pricing":{"ECONOMY":15900}},
		{"flight_id":602,"flight_date":"15-09-2026","capacity":{"ECONOMY":50},"pricing":{"ECONOMY":15900}},
		{"flight_id":603,"flight_date":"2026-09-15","capacity":{"COACH":50},"pricing":{"COACH":15900}},
		{"flight_id":604,"flight_date":"2026-09-16","capacity":{"BUSINESS":8},"pricing":{"BUSINESS":74900},"reason":"extra cabin"}
	]}`
	_, c, rec := newTestContext(t, http.MethodPost, "/v1/inventory/batch", body)

	if err := inv.BatchUpsert(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results   []batchUpsertResult `json:"results"`
		Succeeded int                 `json:"succeeded"`
		Failed    int                 `json:"failed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Succeeded != 2 || resp.Failed != 2 {
		t.Fatalf("succeeded = %d, failed = %d; want 2 and 2", resp.Succeeded, resp.Failed)
	}
	if len(resp.Results) != 4 {
		t.Fatalf("result count = %d, want 4", len(resp.Results))
	}
	if !resp.Results[0].OK || resp.Results[0].Inventory == nil || resp.Results[0].Inventory.Revision != 1 {
		t.Fatalf("first item: %+v", resp.Results[0])
	}
	if resp.Results[1].OK || !strings.Contains(resp.Results[1].Error, "flight_date") {
		t.Fatalf("bad-date item: %+v", resp.Results[1])
	}
	if resp.Results[2].OK || !strings.Contains(resp.Results[2].Error, "COACH") {
		t.Fatalf("bad-class item: %+v", resp.Results[2])
	}
	if !resp.Results[3].OK || resp.Results[3].FlightID != 604 {
		t.Fatalf("last item lost its slot: %+v", resp.Results[3])
	}
}

func TestBatchUpsertRequiresItems(t *testing.T) {
	inv, _, _ := newHandlers(t)

	_, c, rec := newTestContext(t, http.MethodPost, "/v1/inventory/batch", `{"items":[]}`)
	if err := inv.BatchUpsert(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetInventoryNotFoundMapsTo404(t *testing.T) {
	inv, _, _ := newHandlers(t)

	_, c, rec := newTestContext(t, http.MethodGet, "/v1/flights/9/inventory/2026-09-15", "")
	setFlightParams(c, "9", "2026-09-15")

	if err := inv.GetInventory(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetInventoryBadDate(t *testing.T) {
	inv, _, _ := newHandlers(t)

	_, c, rec := newTestContext(t, http.MethodGet, "/v1/flights/9/inventory/15-09-2026", "")
	setFlightParams(c, "9", "15-09-2026")

	if err := inv.GetInventory(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReserveEndpoint(t *testing.T) {
	_, res, eng := newHandlers(t)
	seedFlight(t, eng, 512, 10)

	body := `{"seat_class":"ECONOMY","count":2}`
	_, c, rec := newTestContext(t, http.MethodPost, "/v1/flights/512/inventory/2026-09-15/reserve", body)
	setFlightParams(c, "512", "2026-09-15")

	if err := res.Reserve(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Hold      holdResponse      `json:"hold"`
		Inventory inventoryResponse `json:"inventory"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.Hold.HoldID, "RES") || resp.Hold.Status != "HELD" {
		t.Fatalf("hold: %+v", resp.Hold)
	}
	if resp.Inventory.Available["ECONOMY"] != 8 {
		t.Fatalf("inventory: %+v", resp.Inventory)
	}
}

func TestReserveSoldOutMapsTo409(t *testing.T) {
	_, res, eng := newHandlers(t)
	seedFlight(t, eng, 512, 1)

	body := `{"seat_class":"ECONOMY","count":2}`
	_, c, rec := newTestContext(t, http.MethodPost, "/v1/flights/512/inventory/2026-09-15/reserve", body)
	setFlightParams(c, "512", "2026-09-15")

	if err := res.Reserve(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestReserveCountValidation(t *testing.T) {
	_, res, eng := newHandlers(t)
	seedFlight(t, eng, 512, 10)

	for _, body := range []string{
		`{"seat_class":"ECONOMY","count":0}`,
		`{"seat_class":"ECONOMY","count":10}`,
		`{"seat_class":"","count":1}`,
	} {
		_, c, rec := newTestContext(t, http.MethodPost, "/v1/flights/512/inventory/2026-09-15/reserve", body)
		setFlightParams(c, "512", "2026-09-15")
		if err := res.Reserve(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestConfirmAndReleaseEndpoints(t *testing.T) {
	_, res, eng := newHandlers(t)
	seedFlight(t, eng, 512, 10)
	date, _ := time.Parse("2006-01-02", "2026-09-15")
	hold, _, err := eng.Reserve(context.Background(), 512, date, model.ClassEconomy, 2, 0, "test")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	_, c, rec := newTestContext(t, http.MethodPost, "/v1/holds/"+hold.HoldID+"/confirm", "")
	c.SetParamNames("holdId")
	c.SetParamValues(hold.HoldID)
	if err := res.Confirm(c); err != nil {
		t.Fatalf("confirm handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Releasing a confirmed hold is an invalid transition and maps to 409.
	_, c, rec = newTestContext(t, http.MethodPost, "/v1/holds/"+hold.HoldID+"/release", `{"reason":"oops"}`)
	c.SetParamNames("holdId")
	c.SetParamValues(hold.HoldID)
	if err := res.Release(c); err != nil {
		t.Fatalf("release handler: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("release status = %d, want 409", rec.Code)
	}
}

func TestSweepEndpoint(t *testing.T) {
	_, res, eng := newHandlers(t)
	seedFlight(t, eng, 512, 10)
	date, _ := time.Parse("2006-01-02", "2026-09-15")
	if _, _, err := eng.Reserve(context.Background(), 512, date, model.ClassEconomy, 1, time.Nanosecond, "test"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, c, rec := newTestContext(t, http.MethodPost, "/v1/holds/sweep", "")
	if err := res.Sweep(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Reconciled int `json:"reconciled"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reconciled != 1 {
		t.Fatalf("reconciled = %d, want 1", resp.Reconciled)
	}
}

func TestAuditEndpointValidation(t *testing.T) {
	inv, _, _ := newHandlers(t)

	_, c, rec := newTestContext(t, http.MethodGet, "/v1/audit?kind=BOGUS", "")
	if err := inv.ListAudit(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
