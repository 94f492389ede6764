// Package geo turns stored geofield values into GeoJSON features.
package geo

import "github.com/paulmach/orb/geojson"

// Feature and collection type names.
const (
	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
)

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a single geofield value with its geometry and properties.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties Properties        `json:"properties"`
}

// Properties carries the per-item values consumed by the map client.
// A nil Description is encoded as null.
type Properties struct {
	Description *string `json:"description"`
	Data        any     `json:"data"`
}

// NewFeatureCollection wraps features into a collection.
// A nil slice is encoded as an empty array.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}

	return FeatureCollection{Type: TypeFeatureCollection, Features: features}
}
