package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "scheduling/internal/platform/errors"
	pnet "scheduling/internal/platform/net"
	"scheduling/internal/platform/net/middleware"
)

func TestRateLimitByIP_RejectsOverLimit(t *testing.T) {
	h := middleware.RateLimitByIP(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := do("10.0.0.1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d status %d", i, rr.Code)
		}
	}
	rr := do("10.0.0.1")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status %d", rr.Code)
	}
	var env pnet.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil || env.Code != perr.ErrorCodeTooManyRequests {
		t.Fatalf("429 envelope %+v err %v", env, err)
	}

	if rr := do("10.0.0.2"); rr.Code != http.StatusOK {
		t.Fatalf("other ip should have its own budget, got %d", rr.Code)
	}
}

func TestRateLimitByIP_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := middleware.RateLimitByIP(0, time.Second)(next)
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}
