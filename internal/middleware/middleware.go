package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akolanti/kbchat/internal/metrics"
	"github.com/akolanti/kbchat/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer http.ResponseWriter
	req    *http.Request
	logger *logger_i.Logger
}

// Instrument tags every request with a trace id and counts it by route pattern and status.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		next.ServeHTTP(rec, re.req)

		path := routePattern(re.req)
		metrics.HttpRequestsTotal.WithLabelValues(path, strconv.Itoa(rec.Status)).Inc() //metrics
		re.logger.Info("request completed", "method", r.Method, "path", path, "status", rec.Status, "elapsed", time.Since(start))
	})
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	return re
}

// routePattern keeps metric labels bounded; unmatched paths share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
