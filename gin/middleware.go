package gin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CORS header values sent with every response.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, HEAD, PUT, PATCH, POST, DELETE, OPTIONS"
	corsMaxAge       = "86400"
	optionsAllow     = "GET, HEAD, POST, OPTIONS"
)

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// maxRequestIDLength bounds inbound X-Request-ID values.
const maxRequestIDLength = 128

// CORSMiddleware opens every response to any origin and answers OPTIONS
// requests on any path.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", corsAllowOrigin)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Max-Age", corsMaxAge)

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		req := c.Request.Header
		if req.Get("Origin") != "" && req.Get("Access-Control-Request-Method") != "" && req.Get("Access-Control-Request-Headers") != "" {
			h.Set("Access-Control-Allow-Headers", req.Get("Access-Control-Request-Headers"))
		} else {
			h.Set("Allow", optionsAllow)
		}
		c.AbortWithStatus(http.StatusOK)
	}
}

// RequestIDMiddleware tags each request with the inbound X-Request-ID, or a
// fresh UUID when it is missing or oversized.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request with method, path, status,
// duration and client IP. Requests that recorded errors log at error level.
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if id := c.GetString(requestIDKey); id != "" {
			attrs = append(attrs, "request_id", id)
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.Errors())
			logger.Error("HTTP request with errors", attrs...)
			return
		}
		logger.Info("HTTP request", attrs...)
	}
}

// RecoveryMiddleware turns panics into a 500 response and logs them.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					"panic", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"client_ip", c.ClientIP(),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
