package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
)

type stubParser struct {
	claims *services.StaffClaims
}

func (p stubParser) ParseToken(raw string) (*services.StaffClaims, error) {
	if raw != "good" {
		return nil, errors.New("bad token")
	}
	return p.claims, nil
}

func newRouter(parser TokenParser, perm string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/secure", RequireStaff(parser), RequirePermission(perm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": services.ActorFromContext(c.Request.Context())})
	})
	return r
}

func TestRequireStaff(t *testing.T) {
	parser := stubParser{claims: &services.StaffClaims{Username: "desk", Permissions: []string{services.PermRoomView}}}
	r := newRouter(parser, services.PermRoomView)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
			if tc.want == http.StatusOK && !strings.Contains(w.Body.String(), `"actor":"desk"`) {
				t.Fatalf("actor not propagated: %s", w.Body.String())
			}
		})
	}
}

func TestRequirePermissionForbids(t *testing.T) {
	parser := stubParser{claims: &services.StaffClaims{Username: "maid", Permissions: []string{services.PermRoomView}}}
	r := newRouter(parser, services.PermFinanceView)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "error.forbidden") {
		t.Fatalf("expected 403 envelope, got %d %s", w.Code, w.Body.String())
	}
}

func TestRequestIDIsEchoedAndLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Level: logger.LevelInfo, Format: "json"}, &buf)

	r := gin.New()
	r.Use(RequestID(), Logger(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) != "req-42" {
		t.Fatalf("request id not echoed: %q", w.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("request id missing from log line: %s", buf.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected a generated uuid, got %q", w.Header().Get(RequestIDHeader))
	}
}

type stubCounter struct {
	hits map[string]int64
	err  error
}

func (s *stubCounter) Hit(_ context.Context, key string, _ time.Duration) (int64, time.Duration, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	s.hits[key]++
	return s.hits[key], 1500 * time.Millisecond, nil
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	counter := &stubCounter{hits: map[string]int64{}}
	r := gin.New()
	r.POST("/guest", RateLimit(counter, "guest", 2, time.Minute, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/guest", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	for i := 0; i < 2; i++ {
		if w := send("10.0.0.1"); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := send("10.0.0.1")
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "2" {
		t.Fatalf("expected 429 with Retry-After 2, got %d %q", w.Code, w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), "error.tooManyRequests") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if w := send("10.0.0.2"); w.Code != http.StatusNoContent {
		t.Fatalf("other clients must not be throttled, got %d", w.Code)
	}
	if _, ok := counter.hits["rate:guest:10.0.0.1"]; !ok {
		t.Fatalf("unexpected keys %v", counter.hits)
	}

	counter.err = errors.New("redis down")
	if w := send("10.0.0.1"); w.Code != http.StatusNoContent {
		t.Fatalf("limiter outage must let requests through, got %d", w.Code)
	}
}
