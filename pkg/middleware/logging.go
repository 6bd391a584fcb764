package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
)

var log = logger.Component("http")

// RequestLogger logs one line per request with method, path, status and
// duration. 5xx log at error level, 4xx at warn, the rest at info.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ms := float64(time.Since(start).Microseconds()) / 1000
		line := "%s %s %d %.1fms"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, ms}
		if sub := Subject(c); sub != "" {
			line += " sub=%s"
			args = append(args, sub)
		}

		switch {
		case status >= 500:
			log.Errorf(line, args...)
		case status >= 400:
			log.Warnf(line, args...)
		default:
			log.Infof(line, args...)
		}
	}
}
