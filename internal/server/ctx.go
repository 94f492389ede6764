package server

import (
	"context"
	"sort"

	"github.com/woozymasta/geofieldmap/assets"
	"github.com/woozymasta/geofieldmap/internal/apikey"
	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/mapsettings"
	"github.com/woozymasta/geofieldmap/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Display is a validated display with settings ready for the map client.
type Display struct {
	config.Display
	Settings mapsettings.Settings
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config          *config.Config
	Displays        []Display
	DisplayResolver map[string]int
	DataDir         string
	IndexHTML       []byte
}

// NewServerContext validates the configured displays and resolves the API key.
// Displays with invalid settings are skipped.
func NewServerContext(ctx context.Context, cfg *config.Config, keys *apikey.Resolver, dataDir string) *ServerContext {
	log.Info().Int("config_displays_count", len(cfg.Displays)).Msg("Initializing server context")

	displays := make([]Display, 0, len(cfg.Displays))
	missingKey := false

	for _, d := range cfg.Displays {
		settings, err := cfg.MapSettings(d)
		if err != nil {
			log.Error().Err(err).Str("display", d.Name).Msg("Skipping display: invalid map settings")
			continue
		}

		key, err := keys.Resolve(ctx, settings.LegacyAPIKey)
		if err != nil {
			log.Warn().Err(err).Str("display", d.Name).Msg("API key lookup failed")
		}
		if key == "" {
			missingKey = true
			log.Warn().
				Str("display", d.Name).
				Msg("Gmap API key missing, Google Maps functionality may not be available")
		}

		if err := settings.PreProcess(key, cfg.BaseURL); err != nil {
			log.Error().Err(err).Str("display", d.Name).Msg("Skipping display: settings pre-processing failed")
			continue
		}

		log.Debug().
			Str("display", d.Name).
			Int("items", len(d.Items)).
			Bool("items_url", d.ItemsURL != "").
			Msg("Display validated and added to context")

		displays = append(displays, Display{Display: d, Settings: settings})
	}

	if missingKey {
		metrics.APIKeyMissing.Set(1)
	} else {
		metrics.APIKeyMissing.Set(0)
	}

	sort.SliceStable(displays, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if displays[i].Index != nil {
			idxI = *displays[i].Index
		}
		if displays[j].Index != nil {
			idxJ = *displays[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return displays[i].Name < displays[j].Name
	})

	resolver := make(map[string]int, len(displays))
	for i, d := range displays {
		resolver[d.Name] = i
		for _, alias := range d.Aliases {
			resolver[alias] = i
		}
	}

	log.Info().
		Int("valid_displays_count", len(displays)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:          cfg,
		Displays:        displays,
		DisplayResolver: resolver,
		DataDir:         dataDir,
		IndexHTML:       assets.Index,
	}
}

func (s *ServerContext) display(name string) (*Display, bool) {
	i, ok := s.DisplayResolver[name]
	if !ok {
		return nil, false
	}

	return &s.Displays[i], true
}

// descriptions applies the multivalue split setting to the configured descriptions.
func (d *Display) descriptions() []string {
	return mapsettings.Descriptions(d.Descriptions, d.Settings.MarkerAndInfowindow.MultivalueSplit)
}
