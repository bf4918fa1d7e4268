package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/menu-admin/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"ip":      c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request completed with errors")
			return
		}
		entry.Info("request")
	}
}

// MutationLogger records the outcome of every state-changing request against
// the dish id it targeted, if any.
func MutationLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		c.Next()

		fields := logrus.Fields{"route": c.FullPath(), "status": c.Writer.Status()}
		if id := c.Param("id"); id != "" {
			fields["dish_id"] = id
		}
		if c.Writer.Status() >= 400 || len(c.Errors) > 0 {
			utils.ErrorLogger.WithFields(fields).Error("mutation failed")
			return
		}
		utils.InfoLogger.WithFields(fields).Debug("mutation handled")
	}
}
