package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// ============ RATE LIMIT ============

func TestRateLimiterWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiterPurge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("1.2.3.4")
	now = now.Add(3 * time.Minute)
	rl.purge()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.visitors)
}

func TestRateLimiterHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewRateLimiter(ctx, 1, time.Minute).Handler(okHandler)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/leads", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4321"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", ClientIP(req))
}

// ============ ADMIN AUTH ============

func callWithAuth(h http.Handler, header string) int {
	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdminAuthDisabledWithoutSecret(t *testing.T) {
	assert.Equal(t, http.StatusOK, callWithAuth(AdminAuth("")(okHandler), ""))
}

func TestAdminAuth(t *testing.T) {
	h := AdminAuth("s3cret")(okHandler)

	valid, err := IssueAdminToken("s3cret", "ops", time.Hour)
	require.NoError(t, err)
	wrongKey, err := IssueAdminToken("other", "ops", time.Hour)
	require.NoError(t, err)
	expired, err := IssueAdminToken("s3cret", "ops", -time.Minute)
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, callWithAuth(h, "Bearer "+valid))
	assert.Equal(t, http.StatusOK, callWithAuth(h, "bearer "+valid))
	assert.Equal(t, http.StatusUnauthorized, callWithAuth(h, ""))
	assert.Equal(t, http.StatusUnauthorized, callWithAuth(h, "Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, callWithAuth(h, "Bearer "+wrongKey))
	assert.Equal(t, http.StatusUnauthorized, callWithAuth(h, "Bearer "+expired))
	assert.Equal(t, http.StatusUnauthorized, callWithAuth(h, "Bearer "+noExp))
}

// ============ METRICS ============

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/{id}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/lead_1_abc", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestRelayMetrics(t *testing.T) {
	var rec RelayMetrics

	submitted := testutil.ToFloat64(leadsSubmitted)
	failed := testutil.ToFloat64(sheetsRelay.WithLabelValues("failed"))
	sheetsErrors := testutil.ToFloat64(integrationErrors.WithLabelValues("google_sheets"))

	rec.RecordLeadSubmitted()
	rec.RecordRelay("failed")
	rec.RecordRelay("success")

	assert.Equal(t, submitted+1, testutil.ToFloat64(leadsSubmitted))
	assert.Equal(t, failed+1, testutil.ToFloat64(sheetsRelay.WithLabelValues("failed")))
	assert.Equal(t, sheetsErrors+1, testutil.ToFloat64(integrationErrors.WithLabelValues("google_sheets")))
}
