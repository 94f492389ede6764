// Package processor builds the files served for each map display.
package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/geo"
	"github.com/woozymasta/geofieldmap/internal/icon"
	"github.com/woozymasta/geofieldmap/internal/mapsettings"

	"github.com/rs/zerolog/log"
)

// ProcessDisplay writes the features file and the marker icon of a display under dir.
func ProcessDisplay(ctx context.Context, client *http.Client, cfg *config.Config, d config.Display, dir string, force bool) error {
	settings, err := cfg.MapSettings(d)
	if err != nil {
		return err
	}

	destDir := filepath.Join(dir, d.Name)

	if err := processFeatures(ctx, client, d, settings, destDir, force); err != nil {
		return err
	}

	source := settings.MarkerAndInfowindow.IconFile.File
	if source == "" {
		return nil
	}

	log.Info().
		Str("display", d.Name).
		Str("source", source).
		Msg("Processing marker icon")

	return icon.Process(ctx, client, source, filepath.Join(destDir, config.IconFile), cfg.IconSize, force)
}

func processFeatures(ctx context.Context, client *http.Client, d config.Display, s mapsettings.Settings, destDir string, force bool) error {
	destFile := filepath.Join(destDir, config.FeaturesFile)

	if _, err := os.Stat(destFile); err == nil && !force {
		log.Debug().Str("display", d.Name).Msg("Features file exists, skipping")
		return nil
	}

	items, descriptions := d.Items, d.Descriptions

	// Inline data priority
	if len(items) == 0 && d.ItemsURL != "" {
		log.Info().
			Str("display", d.Name).
			Str("source", d.ItemsURL).
			Msg("Fetching geofield values from URL")

		var err error
		items, descriptions, err = fetchItems(ctx, client, d.ItemsURL)
		if err != nil {
			return err
		}
		if len(d.Descriptions) > 0 {
			descriptions = d.Descriptions
		}
	}

	descriptions = mapsettings.Descriptions(descriptions, s.MarkerAndInfowindow.MultivalueSplit)
	features := geo.BuildFeatures(items, descriptions, d.Data)

	log.Info().
		Str("display", d.Name).
		Int("items", len(items)).
		Int("features", len(features)).
		Msg("Features built")

	if dropped := len(items) - len(features); dropped > 0 {
		log.Warn().
			Str("display", d.Name).
			Int("dropped", dropped).
			Msg("Some geofield values were not recognized")
	}

	return saveGeoJSON(destDir, destFile, geo.NewFeatureCollection(features))
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc geo.FeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
