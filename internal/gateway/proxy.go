package gateway

import (
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/mediccare/platform/internal/config"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// Route maps a path prefix to an upstream base URL.
type Route struct {
	Prefix   string
	Upstream string
}

// DefaultRoutes maps the public path space onto the configured services.
// Service-to-service endpoints live under /internal and are never routed.
func DefaultRoutes(services config.ServicesConfig) []Route {
	return []Route{
		{Prefix: "/auth", Upstream: services.IdentityURL},
		{Prefix: "/api/admin", Upstream: services.IdentityURL},
		{Prefix: "/doctors", Upstream: services.DoctorURL},
		{Prefix: "/api/patients", Upstream: services.PatientURL},
	}
}

// Proxy forwards authenticated requests to the owning service.
type Proxy struct {
	routes  []Route
	timeout time.Duration
	logger  *zap.Logger
}

// NewProxy builds a proxy. Longer prefixes win.
func NewProxy(routes []Route, timeout time.Duration, logger *zap.Logger) *Proxy {
	sorted := append([]Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].Prefix) > len(sorted[j].Prefix) })
	return &Proxy{routes: sorted, timeout: timeout, logger: logger}
}

// Match returns the upstream for path.
func (p *Proxy) Match(path string) (Route, bool) {
	for _, route := range p.routes {
		if path == route.Prefix || strings.HasPrefix(path, route.Prefix+"/") {
			return route, true
		}
	}
	return Route{}, false
}

// Handle proxies the request, preserving path and query.
func (p *Proxy) Handle(c *fiber.Ctx) error {
	route, ok := p.Match(c.Path())
	if !ok {
		return fiber.ErrNotFound
	}
	target := strings.TrimRight(route.Upstream, "/") + c.OriginalURL()
	if err := proxy.DoTimeout(c, target, p.timeout); err != nil {
		p.logger.Warn("upstream request failed",
			zap.String("upstream", route.Upstream),
			zap.String("path", c.Path()),
			zap.Error(err))
		return apperrors.NewBadGateway("upstream unavailable", err)
	}
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
