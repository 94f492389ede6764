package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// BuildFeatures converts geofield items into GeoJSON features, preserving input order.
//
// Typed items with a value and raw strings matching IsPointText are loaded;
// anything else, or anything that fails to parse, is skipped without error.
// Each feature's description is descriptions[i], falling back to descriptions[0]
// and then to null. data is attached unchanged to every feature.
func BuildFeatures(items []Item, descriptions []string, data any) []Feature {
	features := make([]Feature, 0, len(items))

	for i, item := range items {
		if item == nil {
			continue
		}

		g, ok := loadItem(item)
		if !ok {
			log.Debug().Int("delta", i).Msg("Skipping unrecognized geofield value")
			continue
		}

		features = append(features, Feature{
			Type:     TypeFeature,
			Geometry: geojson.NewGeometry(g),
			Properties: Properties{
				Description: descriptionAt(descriptions, i),
				Data:        data,
			},
		})
	}

	return features
}

func loadItem(item Item) (orb.Geometry, bool) {
	value, typed := item.GeofieldValue()
	if value == "" {
		return nil, false
	}
	if !typed && !IsPointText(value) {
		return nil, false
	}

	g, err := Load(value)
	if err != nil {
		log.Debug().Err(err).Str("value", value).Msg("Failed to load geofield value")
		return nil, false
	}

	return g, true
}

func descriptionAt(descriptions []string, i int) *string {
	switch {
	case i < len(descriptions):
		d := descriptions[i]
		return &d
	case len(descriptions) > 0:
		d := descriptions[0]
		return &d
	default:
		return nil
	}
}
