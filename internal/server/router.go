package server

import (
	"net/http"

	"github.com/woozymasta/geofieldmap/internal/metrics"
)

// Routes returns the application handler wrapped in the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/displays", s.HandleDisplaysList)
	mux.HandleFunc("/api/geojson", s.HandleConvert)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/maps/", s.HandleDisplay)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
