package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resort-backend/config"
	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/services"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, Options{})
}

func newTestServerWith(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("ADMIN_USERNAME", "owner@resort.test")
	t.Setenv("ADMIN_PASSWORD", "owner-pass")

	store := repository.NewMemoryStore()
	log := logger.Discard()
	if err := config.SeedDatabase(context.Background(), store, false, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	consumption := services.NewConsumptionService(store, nil, log)
	svc := Services{
		Auth:         services.NewAuthService(store, "test-secret", time.Hour),
		Admins:       services.NewAdminService(store),
		Rooms:        services.NewRoomService(store),
		Availability: services.NewAvailabilityService(store, services.DefaultCleaningBuffer),
		Reservations: services.NewReservationService(services.ReservationDeps{Store: store, Buffer: services.DefaultCleaningBuffer}),
		Consumption:  consumption,
		Products:     services.NewProductService(store),
		Finance:      services.NewFinanceService(store),
		Events:       services.NewEventService(store),
		Customers:    services.NewCustomerService(store),
		Settings:     services.NewSettingsService(store),
		Guests:       services.NewGuestService(store),
		Audit:        services.NewAuditService(store),
	}
	return &testServer{t: t, router: SetupRouter(svc, opts, log)}
}

func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) expect(w *httptest.ResponseRecorder, status int, out any) {
	s.t.Helper()
	if w.Code != status {
		s.t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			s.t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
}

func (s *testServer) login() {
	s.t.Helper()
	var res struct {
		Token string `json:"token"`
	}
	s.expect(s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "owner@resort.test", "password": "owner-pass"}), http.StatusOK, &res)
	s.token = res.Token
}

func TestStaffRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.expect(s.do(http.MethodGet, "/api/rooms", nil), http.StatusUnauthorized, &envelope)
	if envelope.Error.Code != "error.unauthorized" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}

	s.expect(s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "owner@resort.test", "password": "nope"}), http.StatusUnauthorized, nil)
	s.expect(s.do(http.MethodGet, "/health", nil), http.StatusOK, nil)
	s.expect(s.do(http.MethodGet, "/api/products", nil), http.StatusOK, nil)
}

func TestStayFromBookingToCheckout(t *testing.T) {
	s := newTestServer(t)
	s.login()

	var room models.Room
	s.expect(s.do(http.MethodPost, "/api/rooms", gin.H{"name": "A", "capacity": 2, "price": 300}), http.StatusCreated, &room)
	var roomB models.Room
	s.expect(s.do(http.MethodPost, "/api/rooms", gin.H{"name": "B", "capacity": 4, "price": "600"}), http.StatusCreated, &roomB)

	var r models.Reservation
	s.expect(s.do(http.MethodPost, "/api/reservations", gin.H{
		"room_id":    room.ID,
		"guest_name": "Maria Silva",
		"check_in":   "2026-03-01T14:00:00Z",
		"check_out":  "2026-03-05T14:00:00Z",
		"adults":     2,
	}, "Idempotency-Key", "booking-1"), http.StatusCreated, &r)

	var replay models.Reservation
	s.expect(s.do(http.MethodPost, "/api/reservations", gin.H{
		"room_id":    room.ID,
		"guest_name": "Maria Silva",
		"check_in":   "2026-03-01T14:00:00Z",
		"check_out":  "2026-03-05T14:00:00Z",
		"adults":     2,
	}, "Idempotency-Key", "booking-1"), http.StatusCreated, &replay)
	if replay.ID != r.ID {
		t.Fatalf("idempotent replay returned %d, want %d", replay.ID, r.ID)
	}

	path := fmt.Sprintf("/api/reservations/%d", r.ID)

	var available []models.Room
	s.expect(s.do(http.MethodPost, "/api/availability/search", gin.H{
		"check_in": "2026-03-02T14:00:00Z", "check_out": "2026-03-04T14:00:00Z", "adults": 2,
	}), http.StatusOK, &available)
	if len(available) != 1 || available[0].ID != roomB.ID {
		t.Fatalf("expected only room B available, got %+v", available)
	}

	s.expect(s.do(http.MethodPost, path+"/check-in", nil), http.StatusConflict, nil)
	s.expect(s.do(http.MethodPost, path+"/confirm", gin.H{"version": r.Version}), http.StatusOK, nil)
	s.expect(s.do(http.MethodPost, path+"/cancel", gin.H{"version": r.Version}), http.StatusConflict, nil)
	s.expect(s.do(http.MethodPost, path+"/check-in", nil), http.StatusOK, &r)
	if len(r.AccessCode) != 6 {
		t.Fatalf("expected access code, got %q", r.AccessCode)
	}

	s.expect(s.do(http.MethodPost, path+"/items", gin.H{
		"description": "Caipirinha", "value": 25, "quantity": 3, "category": "bar",
	}), http.StatusCreated, nil)

	var queue []map[string]any
	s.expect(s.do(http.MethodGet, "/api/kitchen/queue?category=bar", nil), http.StatusOK, &queue)
	if len(queue) != 1 {
		t.Fatalf("expected one ticket, got %d", len(queue))
	}

	var session struct {
		RoomName string `json:"room_name"`
		Bill     struct {
			GrandTotal decimal.Decimal `json:"grand_total"`
		} `json:"bill"`
	}
	s.expect(s.do(http.MethodPost, "/api/guest/login", gin.H{"access_code": r.AccessCode}), http.StatusOK, &session)
	if session.RoomName != "A" || !session.Bill.GrandTotal.Equal(decimal.NewFromInt(1275)) {
		t.Fatalf("unexpected guest session %+v", session)
	}
	s.expect(s.do(http.MethodGet, "/api/guest/bill", nil, "X-Access-Code", "999999"), http.StatusUnauthorized, nil)

	var out struct {
		Bill struct {
			GrandTotal decimal.Decimal `json:"grand_total"`
		} `json:"bill"`
		Transaction *models.Transaction `json:"transaction"`
	}
	s.expect(s.do(http.MethodPost, path+"/check-out", gin.H{"post_transaction": true}), http.StatusOK, &out)
	if !out.Bill.GrandTotal.Equal(decimal.NewFromInt(1275)) {
		t.Fatalf("grand total = %s, want 1275", out.Bill.GrandTotal)
	}
	if out.Transaction == nil || out.Transaction.Status != models.TransactionPaid {
		t.Fatalf("expected a paid settlement, got %+v", out.Transaction)
	}

	s.expect(s.do(http.MethodPost, "/api/guest/login", gin.H{"access_code": r.AccessCode}), http.StatusUnauthorized, nil)
	s.expect(s.do(http.MethodPost, path+"/items", gin.H{"description": "Late", "value": 1, "quantity": 1}), http.StatusConflict, nil)

	var summary struct {
		IncomePaid decimal.Decimal `json:"income_paid"`
	}
	s.expect(s.do(http.MethodGet, "/api/finance/summary", nil), http.StatusOK, &summary)
	if !summary.IncomePaid.Equal(decimal.NewFromInt(1275)) {
		t.Fatalf("income paid = %s", summary.IncomePaid)
	}

	var rooms []models.Room
	s.expect(s.do(http.MethodGet, "/api/rooms", nil), http.StatusOK, &rooms)
	for _, rm := range rooms {
		if rm.ID == room.ID && rm.Status != models.RoomCleaning {
			t.Fatalf("room A should be Cleaning, got %s", rm.Status)
		}
	}
}

func TestPermissionsAreEnforced(t *testing.T) {
	s := newTestServer(t)
	s.login()

	s.expect(s.do(http.MethodPost, "/api/admins", gin.H{
		"username": "maid", "password": "cleaner-pass", "role": "Cleaner",
	}), http.StatusCreated, nil)

	var res struct {
		Token string `json:"token"`
	}
	s.token = ""
	s.expect(s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "maid", "password": "cleaner-pass"}), http.StatusOK, &res)
	s.token = res.Token

	s.expect(s.do(http.MethodGet, "/api/rooms", nil), http.StatusOK, nil)
	s.expect(s.do(http.MethodGet, "/api/finance/summary", nil), http.StatusForbidden, nil)
	s.expect(s.do(http.MethodPost, "/api/rooms", gin.H{"name": "X", "capacity": 1}), http.StatusForbidden, nil)
}

func TestGuestLoginIsRateLimited(t *testing.T) {
	s := newTestServerWith(t, Options{GuestLimit: 3, GuestWindow: time.Minute})

	for i := 0; i < 3; i++ {
		s.expect(s.do(http.MethodPost, "/api/guest/login", gin.H{"access_code": "000000"}), http.StatusUnauthorized, nil)
	}
	w := s.do(http.MethodPost, "/api/guest/login", gin.H{"access_code": "000001"})
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.expect(w, http.StatusTooManyRequests, &envelope)
	if envelope.Error.Code != "error.tooManyRequests" || w.Header().Get("Retry-After") == "" {
		t.Fatalf("unexpected throttle response %q retry-after=%q", envelope.Error.Code, w.Header().Get("Retry-After"))
	}
	s.expect(s.do(http.MethodGet, "/api/guest/bill", nil, "X-Access-Code", "000002"), http.StatusTooManyRequests, nil)

	// staff routes are not throttled by guest attempts
	s.expect(s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "owner@resort.test", "password": "owner-pass"}), http.StatusOK, nil)
}

func TestProductActivationHidesItFromTheMenu(t *testing.T) {
	s := newTestServer(t)
	s.login()

	var p models.Product
	s.expect(s.do(http.MethodPost, "/api/products", gin.H{"name": "Caipirinha", "category": "bar", "price": "22"}), http.StatusCreated, &p)
	path := fmt.Sprintf("/api/products/%d/active", p.ID)
	s.expect(s.do(http.MethodPatch, path, gin.H{}), http.StatusBadRequest, nil)
	s.expect(s.do(http.MethodPatch, path, gin.H{"active": false}), http.StatusOK, &p)
	if p.Active {
		t.Fatalf("product still active after deactivation")
	}

	var menu []models.Product
	s.expect(s.do(http.MethodGet, "/api/products", nil), http.StatusOK, &menu)
	if len(menu) != 0 {
		t.Fatalf("inactive product on the public menu: %+v", menu)
	}
	s.expect(s.do(http.MethodGet, "/api/products?all=true", nil), http.StatusOK, &menu)
	if len(menu) != 1 {
		t.Fatalf("expected the full catalog to include it, got %+v", menu)
	}
}
