package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ReadyCheck checks one dependency for /ready. A nil Check counts as ready.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

// RegisterHealth mounts GET /health (liveness) and GET /ready, which answers
// 200 only when every check passes and 503 otherwise.
func RegisterHealth(r gin.IRouter, checks ...ReadyCheck) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for _, chk := range checks {
			ok := chk.Check == nil || chk.Check(ctx) == nil
			deps[chk.Name] = ok
			ready = ready && ok
		}

		body := gin.H{"deps": deps, "uptime": time.Since(startTime).Round(time.Second).String()}
		if !ready {
			body["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
	})
}
