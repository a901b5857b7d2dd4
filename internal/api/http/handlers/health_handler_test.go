package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediccare/platform/internal/observability"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func probe(t *testing.T, h *HealthHandler, path string) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/live", h.Live)
	app.Get("/ready", h.Ready)
	app.Get("/metrics", h.Metrics)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestLive(t *testing.T) {
	status, body := probe(t, NewHealthHandler("mediccare-doctor", "1.2.0", nil, nil), "/live")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "mediccare-doctor", body["service"])
}

func TestReadyWithoutDependencies(t *testing.T) {
	status, body := probe(t, NewHealthHandler("svc", "dev", nil, nil), "/ready")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyReportsFailingDependency(t *testing.T) {
	h := NewHealthHandler("svc", "dev", nil, map[string]Pinger{
		"postgres": pingFunc(func(context.Context) error { return nil }),
		"redis":    pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})

	status, body := probe(t, h, "/ready")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	e, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", e["code"])
	details, _ := e["details"].(map[string]any)
	assert.Equal(t, "ok", details["postgres"])
	assert.Equal(t, "dial tcp: refused", details["redis"])
}

func TestMetricsSnapshot(t *testing.T) {
	metrics := observability.NewMetrics()
	metrics.RecordError("/doctors/count", fiber.MethodGet, "INTERNAL_ERROR")

	status, body := probe(t, NewHealthHandler("svc", "dev", metrics, nil), "/metrics")
	assert.Equal(t, fiber.StatusOK, status)
	snapshot, _ := body["data"].(map[string]any)
	errs, _ := snapshot["errors"].(map[string]any)
	assert.EqualValues(t, 1, errs["/doctors/count|GET|INTERNAL_ERROR"])
}
