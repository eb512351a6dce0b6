package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skysearch/pkg/idgen"
	"skysearch/pkg/logger"
)

// RequestID tags every request with a generated id, exposed as the
// X-Request-Id response header and available to handlers via the context.
func RequestID(gen idgen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := gen.RequestID()
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// RequestLogger writes one structured entry per completed request.
func RequestLogger(log logger.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			{Key: "method", Value: c.Request.Method},
			{Key: "path", Value: c.Request.URL.Path},
			{Key: "status", Value: c.Writer.Status()},
			{Key: "took_ms", Value: time.Since(start).Milliseconds()},
		}
		if id, ok := c.Get("request_id"); ok {
			fields = append(fields, logger.Field{Key: "request_id", Value: id})
		}
		log.Info("request completed", fields...)
	}
}

// CORS answers preflight requests and attaches the headers a browser UI
// needs to call the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, DELETE, HEAD, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
