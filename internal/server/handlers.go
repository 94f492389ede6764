// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/geo"
	"github.com/woozymasta/geofieldmap/internal/metrics"

	"github.com/rs/zerolog/log"
)

const (
	etagCap = 64

	// maxConvertBody limits the request body of the conversion endpoint.
	maxConvertBody = 4 << 20

	contentTypeGeoJSON = "application/geo+json"
)

type displayEntry struct {
	Index *int   `json:"index,omitempty"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// convertRequest is the body of POST /api/geojson.
type convertRequest struct {
	Data         any       `json:"data"`
	Items        geo.Items `json:"items"`
	Descriptions []string  `json:"descriptions"`
}

// HandleDisplaysList serves the list of available displays.
func (s *ServerContext) HandleDisplaysList(w http.ResponseWriter, r *http.Request) {
	list := make([]displayEntry, 0, len(s.Displays))
	for _, d := range s.Displays {
		list = append(list, displayEntry{Index: d.Index, Name: d.Name, Title: d.Title})
	}

	writeJSON(w, http.StatusOK, "application/json", list)
}

// HandleConvert builds GeoJSON features from the posted geofield values.
// Unrecognized values are skipped, only a malformed body is an error.
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req convertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConvertBody))
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Debug().Err(err).Msg("Invalid conversion request")
		http.Error(w, "invalid request body: "+err.Error(), status)
		return
	}

	features := geo.BuildFeatures(req.Items, req.Descriptions, req.Data)
	metrics.ObserveBuild(len(req.Items), len(features))

	writeJSON(w, http.StatusOK, contentTypeGeoJSON, geo.NewFeatureCollection(features))
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := `"` + strconv.FormatInt(int64(len(s.IndexHTML)), 16) + `"`

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleDisplay serves the generated files and the map view of a display.
func (s *ServerContext) HandleDisplay(w http.ResponseWriter, r *http.Request) {
	// Path: /maps/{display}/{file}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}

	d, ok := s.display(parts[1])
	if !ok {
		http.NotFound(w, r)
		return
	}

	dir := filepath.Join(s.DataDir, d.Name)

	switch parts[2] {
	case "settings.json":
		s.serveMapView(w, d, dir)
	case config.FeaturesFile:
		if !s.serveFile(w, r, filepath.Join(dir, config.FeaturesFile), contentTypeGeoJSON) {
			// not generated yet: build from inline values
			features := geo.BuildFeatures(d.Items, d.descriptions(), d.Data)
			metrics.ObserveBuild(len(d.Items), len(features))
			writeJSON(w, http.StatusOK, contentTypeGeoJSON, geo.NewFeatureCollection(features))
		}
	case config.IconFile:
		if !s.serveFile(w, r, filepath.Join(dir, config.IconFile), "image/webp") {
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func (s *ServerContext) serveMapView(w http.ResponseWriter, d *Display, dir string) {
	features, err := loadFeatures(filepath.Join(dir, config.FeaturesFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("display", d.Name).Msg("Failed to read features file")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		features = geo.BuildFeatures(d.Items, d.descriptions(), d.Data)
	}

	iconURL := ""
	if d.Settings.MarkerAndInfowindow.IconImageMode == "icon_file" {
		if _, err := os.Stat(filepath.Join(dir, config.IconFile)); err == nil {
			iconURL = "/maps/" + d.Name + "/" + config.IconFile
		}
	} else {
		iconURL = d.Settings.MarkerAndInfowindow.IconImagePath
	}

	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, "application/json", newMapView(d, features, iconURL))
}

func loadFeatures(path string) ([]geo.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var fc geo.FeatureCollection
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return nil, err
	}

	return fc.Features, nil
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

// writeJSON encodes v before touching the response so an unencodable
// value becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_, _ = w.Write(append(body, '\n'))
}
