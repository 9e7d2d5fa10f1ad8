package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-genui/internal/observability"
	"github.com/yungbote/neurobridge-genui/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

// quietRoutes are probed constantly and only logged at debug.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// Observe records one metrics sample and one log line per request. Either dependency may be nil.
func Observe(log *logger.Logger, m *observability.Metrics) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(status), elapsed)

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"bytes_out", c.Writer.Size(),
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		if caps, ok := c.Get(capabilitiesKey); ok {
			fields = append(fields, "caps_source", capsSource(caps))
		}
		if n, ok := c.Get(fallbacksKey); ok {
			fields = append(fields, "fallbacks", n)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("genui request", fields...)
		case status >= 400:
			log.Warn("genui request", fields...)
		case quietRoutes[route]:
			log.Debug("genui request", fields...)
		default:
			log.Info("genui request", fields...)
		}
	}
}
