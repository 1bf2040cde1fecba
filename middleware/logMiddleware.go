package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func RequestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":      c.Request.Method,
			"url":         c.Request.URL.String(),
			"remote_addr": c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
			"status":      c.Writer.Status(),
			"duration":    time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Warn("request completed with errors")
		default:
			entry.Info("request completed")
		}
	}
}
