package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rate-gate/internal/ratelimit"
	"rate-gate/internal/redis"
)

func localSelector(t *testing.T) *ratelimit.Selector {
	t.Helper()
	local := ratelimit.NewLocalStore()
	t.Cleanup(local.Stop)
	return ratelimit.NewSelector(nil, local, nil)
}

func sharedSelector(t *testing.T) (*ratelimit.Selector, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	local := ratelimit.NewLocalStore()
	t.Cleanup(local.Stop)

	return ratelimit.NewSelector(ratelimit.NewRedisStore(client), local, nil), mr
}

func TestHealthCheckWithoutBackend(t *testing.T) {
	h := New(localSelector(t), nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status ratelimit.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.False(t, status.Backend)
}

func TestHealthCheckWithBackend(t *testing.T) {
	selector, mr := sharedSelector(t)
	h := New(selector, nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status ratelimit.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.True(t, status.Backend)

	// Outage flips the backend flag but the endpoint stays 200
	mr.Close()
	rec = httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.False(t, status.Backend)
}

func TestResetRateKey(t *testing.T) {
	selector := localSelector(t)
	h := New(selector, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := selector.Increment(ctx, "tier:general|ip:10.0.0.1", time.Minute)
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	h.ResetRateKey(rec, httptest.NewRequest("DELETE", "/api/admin/rate-limit?key=tier:general%7Cip:10.0.0.1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	result, err := selector.Increment(ctx, "tier:general|ip:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
}

func TestResetRateKeyMissingKey(t *testing.T) {
	h := New(localSelector(t), nil)

	rec := httptest.NewRecorder()
	h.ResetRateKey(rec, httptest.NewRequest("DELETE", "/api/admin/rate-limit?key=never-seen", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResetRateKeyRequiresKey(t *testing.T) {
	h := New(localSelector(t), nil)

	rec := httptest.NewRecorder()
	h.ResetRateKey(rec, httptest.NewRequest("DELETE", "/api/admin/rate-limit", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetRateKeySharedStoreUnreachable(t *testing.T) {
	selector, mr := sharedSelector(t)
	h := New(selector, nil)
	mr.Close()

	rec := httptest.NewRecorder()
	h.ResetRateKey(rec, httptest.NewRequest("DELETE", "/api/admin/rate-limit?key=tier:general%7Cip:10.0.0.1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
