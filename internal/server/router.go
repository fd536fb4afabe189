// Package server assembles the HTTP handler: routes, health and metrics
// endpoints, and the middleware chain.
package server

import (
	"net/http"
	"time"

	"github.com/diewo77/go-workshop/auth"
	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Routes is implemented by every handler group.
type Routes interface {
	Register(mux *http.ServeMux)
}

// Options configures New.
type Options struct {
	DB           *gorm.DB
	Metrics      *metrics.Metrics
	Log          *zap.Logger
	DefaultActor auth.DefaultActor
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(opts Options, routes ...Routes) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := opts.DB.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}
	for _, r := range routes {
		r.Register(mux)
	}

	// metrics sits directly on the mux so it sees the matched pattern.
	var h http.Handler = opts.Metrics.Middleware(mux)
	h = withLogging(log, h)
	h = auth.Middleware(opts.DefaultActor)(h)
	return withRecover(log, h)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		actor, _ := auth.UserIDFromContext(r.Context())
		log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Int("bytes", sw.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", auth.ClientIPFromContext(r.Context())),
			zap.String("actor", actor),
		)
	})
}

func withRecover(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path), zap.Stack("stack"))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
