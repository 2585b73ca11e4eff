package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubPinger struct {
	err   error
	calls int
}

func (p *stubPinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func setupHealthRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHealthHandler(zap.NewNop(), db)
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	return r
}

func TestHealthHandler_HealthSkipsDependencies(t *testing.T) {
	db := &stubPinger{err: errors.New("db down")}
	rec := performRequest(setupHealthRouter(db), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if db.calls != 0 {
		t.Fatalf("expected health to skip the database")
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	rec := performRequest(setupHealthRouter(&stubPinger{}), http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = performRequest(setupHealthRouter(&stubPinger{err: errors.New("db down")}), http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}
