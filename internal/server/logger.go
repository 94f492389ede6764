package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/metrics"

	"github.com/rs/zerolog/log"
)

// RequestLogger is a middleware to log and count HTTP requests.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		metrics.ObserveRequest(route(r.URL.Path), ww.statusCode, elapsed)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Str("ip", r.RemoteAddr).
			Dur("duration", elapsed).
			Msg("Request processed")
	})
}

// route maps a request path to a low-cardinality metrics label.
func route(path string) string {
	switch path {
	case "/":
		return "index"
	case "/api/displays", "/api/geojson":
		return strings.TrimPrefix(path, "/")
	case "/metrics":
		return "metrics"
	}

	if strings.HasPrefix(path, "/maps/") {
		switch path[strings.LastIndex(path, "/")+1:] {
		case "settings.json", config.FeaturesFile, config.IconFile:
			return "maps/" + path[strings.LastIndex(path, "/")+1:]
		}
	}

	return "other"
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing to the underlying response writer.
func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
