package server

import (
	"net/http"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/driver"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	code    int
	written bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.code = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.code = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// instrument logs each request, counts it by route and code, and turns a panic into a
// failure status
func instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()

		defer func() {
			if v := recover(); v != nil {
				logger.Error("Handler panicked", logger.Fields{"route": route, "panic": v}, nil)
				if !rec.written {
					writeStatus(rec, driver.Status{
						Code: http.StatusInternalServerError,
						Text: driver.GlyphFailure + " Internal error",
					})
				}
				rec.code = http.StatusInternalServerError
			}

			elapsed := time.Since(start)
			metrics.ObserveRequest(route, rec.code)
			logger.RecordTiming("http."+route, elapsed)
			logger.Info("Request", logger.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.code,
				"duration": elapsed.String(),
			})
		}()

		next(rec, r)
	})
}
