package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/peakpulse/internal/logger"
)

// RequestLogger writes one structured line per request once the handler
// chain has finished.
//
// Level follows the response status: 5xx logs at error, 4xx at warn, the
// rest at info. Errors attached with c.Error are included.
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"9b2f0c1e-4f7a-4c55-9d1e-2f3b7c8a6d10","method":"GET","path":"/api/v1/aggregate","status":200,"latency_ms":3,"message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		log := logger.Component("http")

		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("error", c.Errors.String())
		}

		ev.Str("request_id", GetRequestID(c)).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
