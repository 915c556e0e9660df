package app

import (
	"net/http"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/logging"
	"taskmanager/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMiddleware allows credentialed cross-origin calls. With no configured
// origins, the caller's Origin is echoed back ("*" is not valid with credentials).
func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := utils.SplitList(cfg.AllowedOrigins); len(origins) > 0 {
		cc.AllowOrigins = origins
	} else {
		cc.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cc)
}

// requestLogger writes one line per request.
func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if id, ok := auth.UserIDFromContext(c); ok {
			args = append(args, "user_id", id)
		}
		log.Info(c.Request.Context(), "request", args...)
	}
}
