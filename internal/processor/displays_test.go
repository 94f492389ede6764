package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"value": "POINT(12.5 42)", "description": "Rome"},
				{"value": "LINESTRING(0 0, 1 1)", "geo_type": "linestring", "description": "Road"},
				{"value": "garbage", "description": "Nothing"}
			]`))
		case "/marker.png":
			_ = png.Encode(w, image.NewRGBA(image.Rect(0, 0, 100, 50)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

type savedFeature struct {
	GeometryType string
	Properties   geo.Properties
}

func readCollection(t *testing.T, path string) (string, []savedFeature) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties geo.Properties `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))

	out := make([]savedFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, savedFeature{GeometryType: f.Geometry.Type, Properties: f.Properties})
	}
	return fc.Type, out
}

func TestProcessDisplayInline(t *testing.T) {
	srv := newFeed(t)
	cfg := loadConfig(t, fmt.Sprintf(`
icon_size: 32
displays:
  - name: rome
    items: ["POINT(12.5 42)", "POINT(12.4 41.9)", "not-a-point"]
    descriptions: [first, second]
    data: {bundle: place}
    settings:
      map_marker_and_infowindow:
        icon_file_wrapper:
          icon_file: %s/marker.png
`, srv.URL))

	dir := t.TempDir()
	require.NoError(t, ProcessDisplay(context.Background(), srv.Client(), cfg, cfg.Displays[0], dir, false))

	typ, features := readCollection(t, filepath.Join(dir, "rome", config.FeaturesFile))
	assert.Equal(t, geo.TypeFeatureCollection, typ)
	require.Len(t, features, 2)

	// multivalue split is off by default: every feature gets the first value
	for _, f := range features {
		assert.Equal(t, "Point", f.GeometryType)
		require.NotNil(t, f.Properties.Description)
		assert.Equal(t, "first", *f.Properties.Description)
		assert.Equal(t, map[string]any{"bundle": "place"}, f.Properties.Data)
	}

	info, err := os.Stat(filepath.Join(dir, "rome", config.IconFile))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestProcessDisplayFromURL(t *testing.T) {
	srv := newFeed(t)
	cfg := loadConfig(t, fmt.Sprintf(`
displays:
  - name: feed
    items_url: %s/items.json
    settings:
      map_marker_and_infowindow:
        multivalue_split: true
`, srv.URL))

	dir := t.TempDir()
	require.NoError(t, ProcessDisplay(context.Background(), srv.Client(), cfg, cfg.Displays[0], dir, false))

	_, features := readCollection(t, filepath.Join(dir, "feed", config.FeaturesFile))
	require.Len(t, features, 2)
	assert.Equal(t, "Point", features[0].GeometryType)
	assert.Equal(t, "Rome", *features[0].Properties.Description)
	assert.Equal(t, "LineString", features[1].GeometryType)
	assert.Equal(t, "Road", *features[1].Properties.Description)
}

func TestProcessDisplaySkipsExisting(t *testing.T) {
	cfg := loadConfig(t, `
displays:
  - name: rome
    items: ["POINT(1 2)"]
`)

	dir := t.TempDir()
	dest := filepath.Join(dir, "rome", config.FeaturesFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("{}"), 0o600))

	require.NoError(t, ProcessDisplay(context.Background(), http.DefaultClient, cfg, cfg.Displays[0], dir, false))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	require.NoError(t, ProcessDisplay(context.Background(), http.DefaultClient, cfg, cfg.Displays[0], dir, true))
	_, features := readCollection(t, dest)
	assert.Len(t, features, 1)
}

func TestProcessDisplayErrors(t *testing.T) {
	srv := newFeed(t)
	cfg := loadConfig(t, fmt.Sprintf(`
displays:
  - name: invalid
    settings:
      map_zoom_and_pan:
        zoom: {initial: 40}
  - name: missing
    items_url: %s/nope.json
`, srv.URL))

	dir := t.TempDir()
	assert.ErrorContains(t, ProcessDisplay(context.Background(), srv.Client(), cfg, cfg.Displays[0], dir, false), "start zoom")
	assert.ErrorContains(t, ProcessDisplay(context.Background(), srv.Client(), cfg, cfg.Displays[1], dir, false), "status 404")
}
