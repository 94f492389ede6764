package server

import (
	"github.com/woozymasta/geofieldmap/internal/geo"
	"github.com/woozymasta/geofieldmap/internal/mapsettings"
)

// mapView is what the map client needs to render one display.
type mapView struct {
	Settings    mapsettings.Settings `json:"settings"`
	Name        string               `json:"name"`
	Title       string               `json:"title,omitempty"`
	FeaturesURL string               `json:"features_url"`
	IconURL     string               `json:"icon_url,omitempty"`
	Message     string               `json:"message,omitempty"`
	Bounds      []float64            `json:"bounds,omitempty"` // [west, south, east, north]
	Center      [2]float64           `json:"center"`           // [lon, lat]
	Features    int                  `json:"features"`
	Render      bool                 `json:"render"`
}

// newMapView decides how a display is rendered given its features.
//
// With features the map fits their bounds unless the center is forced.
// Without features the empty behaviour applies: nothing, a message,
// or an empty map at the default center.
func newMapView(d *Display, features []geo.Feature, iconURL string) mapView {
	s := d.Settings
	v := mapView{
		Settings:    s,
		Name:        d.Name,
		Title:       d.Title,
		FeaturesURL: "/maps/" + d.Name + "/features.geojson",
		IconURL:     iconURL,
		Center:      [2]float64{s.Center.Lon, s.Center.Lat},
		Features:    len(features),
		Render:      true,
	}

	if len(features) == 0 {
		switch s.Empty.Behaviour {
		case mapsettings.EmptyMap:
		case mapsettings.EmptyMessage:
			v.Render = false
			v.Message = s.Empty.Message
		default:
			v.Render = false
		}
		return v
	}

	bound, ok := geo.Bounds(features)
	if !ok {
		return v
	}

	v.Bounds = []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
	if !s.Center.Force {
		c := bound.Center()
		v.Center = [2]float64{c.Lon(), c.Lat()}
	}

	return v
}
