package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gosocial-app/backend/utils"
)

// RequestIDKey is the key under which the request id is stored in the Gin
// context and echoed in the X-Request-ID response header.
const RequestIDKey = "request_id"

// RequestLogger tags each request with an id and writes one structured
// access-log line after the handler chain completes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		ctx.Set(RequestIDKey, requestID)
		ctx.Header("X-Request-ID", requestID)

		ctx.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.String("ip", ctx.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}
		logger.Info("request", fields...)
	}
}

// Recovery converts panics into a 500 response and a structured log line
// instead of tearing the process down.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", ctx.Request.URL.Path),
					zap.Stack("stacktrace"),
				)
				utils.AbortWithError(ctx, http.StatusInternalServerError, "internal server error")
			}
		}()
		ctx.Next()
	}
}
