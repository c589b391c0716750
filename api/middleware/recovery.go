package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/fetchbar/pkg/logger"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a 500 response. The panic is logged to
// log and, when events is set, also lands in the error category file.
func Recovery(log *zap.Logger, events *logger.MultiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			fields := []zap.Field{
				zap.String("panic", fmt.Sprint(recovered)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", http.StatusInternalServerError),
			}
			log.Error("Panic recovered", fields...)
			if events != nil {
				events.LogAppError("Panic recovered", fields...)
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}()
		c.Next()
	}
}
