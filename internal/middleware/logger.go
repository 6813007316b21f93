package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const loggerKey ctxKey = iota + 100

// ZapRequestLogger logs one line per request and puts a logger tagged with
// the request id into the request context.
func ZapRequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLog := logger
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				reqLog = logger.With(zap.String("request_id", reqID))
			}
			r = r.WithContext(context.WithValue(r.Context(), loggerKey, reqLog))

			defer func() {
				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_ip", r.RemoteAddr),
				}
				if u, ok := UserFrom(r.Context()); ok {
					fields = append(fields, zap.String("user_id", u.ID))
				}

				level := zapcore.InfoLevel
				if ww.Status() >= http.StatusInternalServerError {
					level = zapcore.WarnLevel
				}
				if ce := reqLog.Check(level, "request completed"); ce != nil {
					ce.Write(fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Logger returns the request-scoped logger, or a no-op logger outside a request.
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
