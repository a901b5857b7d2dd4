package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/auth/login", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 200, 30*time.Millisecond)
	m.RecordError("/auth/login", "POST", "INVALID_CREDENTIALS")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/auth/login|POST|200"])
	assert.Equal(t, int64(20), snap.AvgMS["/auth/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/auth/login|POST|INVALID_CREDENTIALS"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/doctors/username/:username", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusNotFound, "nope")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/doctors/username/dr_x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/doctors/username/:username|GET|204"])
	assert.Equal(t, int64(1), snap.Requests["/missing|GET|404"])
}
