package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Authcult/tradingagents-api/internal/platform/engine"
)

func newHealthHandler(available bool) *HealthHandler {
	return NewHealthHandler("TradingAgents API", "1.0.0",
		func() engine.Availability {
			return engine.Availability{Available: available, Reason: "no Gemini API key configured"}
		},
		testLogger())
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newHealthHandler(true).Check(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "TradingAgents API", body["service"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthDetailedStatus(t *testing.T) {
	t.Parallel()

	t.Run("real engine", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newHealthHandler(true).DetailedStatus(rec, httptest.NewRequest(http.MethodGet, "/api/health/status", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.True(t, env.Success)

		var data struct {
			Status   string            `json:"status"`
			System   map[string]string `json:"system"`
			Services map[string]string `json:"services"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "healthy", data.Status)
		assert.Equal(t, "available", data.Services["analysis_engine"])
		assert.Equal(t, "running", data.Services["api"])
		assert.NotEmpty(t, data.System["go_version"])
	})

	t.Run("simulated fallback", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newHealthHandler(false).DetailedStatus(rec, httptest.NewRequest(http.MethodGet, "/api/health/status", nil))

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

		var data struct {
			Services map[string]string `json:"services"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "simulated", data.Services["analysis_engine"])
	})
}

func TestHealthPing(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newHealthHandler(true).Ping(rec, httptest.NewRequest(http.MethodGet, "/api/health/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["pong"])
}
