package http

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/example/musicschool-scheduler/internal/logging"
	"go.uber.org/zap"
)

// RequestLogger assigns each request an incrementing id, stashes a scoped
// logger in the context, and logs start and completion.
func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				zap.Uint64("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.Info("request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.Info("request completed", zap.Duration("duration", time.Since(start)))
		})
	}
}
