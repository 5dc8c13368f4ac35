package jwsite

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwdigital/jwsite/layout"
	"github.com/jwdigital/jwsite/logger"
)

type siteMetrics struct {
	registry      *prometheus.Registry
	requests      echo.MiddlewareFunc
	linkFallbacks *prometheus.CounterVec
}

func newSiteMetrics(reg *prometheus.Registry) (*siteMetrics, error) {
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jwsite",
		Name:      "link_fallbacks_total",
		Help:      "Links in navigation, footer or blocks that resolved to the fallback target.",
	}, []string{"where", "problem"})
	if err := reg.Register(fallbacks); err != nil {
		return nil, err
	}

	requests, err := echoprometheus.MiddlewareConfig{
		Namespace:  "jwsite",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}

	return &siteMetrics{registry: reg, requests: requests, linkFallbacks: fallbacks}, nil
}

func (m *siteMetrics) middleware() echo.MiddlewareFunc {
	return m.requests
}

func (m *siteMetrics) handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.registry})
}

// fallbackReporter counts degraded links and logs them at debug level.
func (a *App) fallbackReporter(c echo.Context) layout.Reporter {
	return func(f layout.Fallback) {
		a.metrics.linkFallbacks.WithLabelValues(f.Section, string(f.Problem)).Inc()
		a.Log.Debug("link fallback",
			logger.String("path", c.Request().URL.Path),
			logger.String("where", f.Where),
			logger.String("label", f.Label),
			logger.String("problem", string(f.Problem)),
		)
	}
}
