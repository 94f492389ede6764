// Package mapsettings models the Google Map display settings of a geofield map.
package mapsettings

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EmptyBehaviour selects the output of a map without features.
type EmptyBehaviour string

const (
	// EmptyHide renders nothing.
	EmptyHide EmptyBehaviour = "0"
	// EmptyMessage renders Empty.Message instead of the map.
	EmptyMessage EmptyBehaviour = "1"
	// EmptyMap renders an empty map at the default center.
	EmptyMap EmptyBehaviour = "2"
)

// Zoom level limits of the Google Maps JavaScript API.
const (
	MinZoomLevel = 1
	MaxZoomLevel = 22
)

// Map types known to the Google Maps JavaScript API.
var MapTypes = []string{"roadmap", "satellite", "hybrid", "terrain"}

// GestureHandlings lists the accepted gestureHandling values.
var GestureHandlings = []string{"auto", "greedy", "cooperative", "none"}

// DefaultOMSOptions are the spiderfier options suggested by the library for the simplest setup.
const DefaultOMSOptions = `{"markersWontMove": "true", "markersWontHide": "true", "basicFormatEvents": "true", "nearbyDistance": 3}`

// Settings holds everything the map client needs to render a display.
type Settings struct {
	GmapAPIKey string `yaml:"gmap_api_key,omitempty" json:"gmap_api_key"`
	// LegacyAPIKey is the per-display key of older configurations,
	// migrated into the global settings on first use.
	LegacyAPIKey string `yaml:"map_google_api_key,omitempty" json:"-"`

	Dimensions          Dimensions          `yaml:"map_dimensions"            json:"map_dimensions"`
	Empty               Empty               `yaml:"map_empty"                 json:"map_empty"`
	Center              Center              `yaml:"map_center"                json:"map_center"`
	ZoomAndPan          ZoomAndPan          `yaml:"map_zoom_and_pan"          json:"map_zoom_and_pan"`
	Controls            Controls            `yaml:"map_controls"              json:"map_controls"`
	MarkerAndInfowindow MarkerAndInfowindow `yaml:"map_marker_and_infowindow" json:"map_marker_and_infowindow"`
	OMS                 OMS                 `yaml:"map_oms"                   json:"map_oms"`
	AdditionalOptions   string              `yaml:"map_additional_options"    json:"map_additional_options"`
	CustomStyle         CustomStyle         `yaml:"custom_style_map"          json:"custom_style_map"`
	MarkerCluster       MarkerCluster       `yaml:"map_markercluster"         json:"map_markercluster"`
}

// Dimensions are CSS lengths or percentages.
type Dimensions struct {
	Width  string `yaml:"width"  json:"width"`
	Height string `yaml:"height" json:"height"`
}

// Empty configures the empty map output.
type Empty struct {
	Behaviour EmptyBehaviour `yaml:"empty_behaviour" json:"empty_behaviour"`
	Message   string         `yaml:"empty_message"   json:"empty_message"`
}

// Center is the default map center.
type Center struct {
	Lat   float64 `yaml:"lat"          json:"lat"`
	Lon   float64 `yaml:"lon"          json:"lon"`
	Force bool    `yaml:"center_force" json:"center_force"`
}

// Zoom levels of the map.
type Zoom struct {
	Initial int  `yaml:"initial" json:"initial"`
	Force   bool `yaml:"force"   json:"force"`
	Min     int  `yaml:"min"     json:"min"`
	Max     int  `yaml:"max"     json:"max"`
}

// ZoomAndPan controls zooming and panning.
type ZoomAndPan struct {
	Zoom            Zoom   `yaml:"zoom"            json:"zoom"`
	GestureHandling string `yaml:"gestureHandling" json:"gestureHandling"`
	Scrollwheel     bool   `yaml:"scrollwheel"     json:"scrollwheel"`
	Draggable       bool   `yaml:"draggable"       json:"draggable"`
	MapReset        bool   `yaml:"map_reset"       json:"map_reset"`
}

// Controls toggles the map UI controls.
type Controls struct {
	DisableDefaultUI bool    `yaml:"disable_default_ui"                json:"disable_default_ui"`
	ZoomControl      bool    `yaml:"zoom_control"                      json:"zoom_control"`
	MapTypeID        string  `yaml:"map_type_id"                       json:"map_type_id"`
	MapTypeControl   bool    `yaml:"map_type_control"                  json:"map_type_control"`
	MapTypeIDs       TypeIDs `yaml:"map_type_control_options_type_ids" json:"map_type_control_options_type_ids"`
	ScaleControl     bool    `yaml:"scale_control"                     json:"scale_control"`
	StreetView       bool    `yaml:"street_view_control"               json:"street_view_control"`
	Fullscreen       bool    `yaml:"fullscreen_control"                json:"fullscreen_control"`
}

// MarkerAndInfowindow configures markers and their info windows.
type MarkerAndInfowindow struct {
	IconImageMode   string   `yaml:"icon_image_mode"   json:"icon_image_mode"`
	IconImagePath   string   `yaml:"icon_image_path"   json:"icon_image_path"`
	IconFile        IconFile `yaml:"icon_file_wrapper" json:"icon_file_wrapper"`
	InfowindowField string   `yaml:"infowindow_field"  json:"infowindow_field"`
	MultivalueSplit bool     `yaml:"multivalue_split"  json:"multivalue_split"`
	ForceOpen       bool     `yaml:"force_open"        json:"force_open"`
	ViewMode        string   `yaml:"view_mode,omitempty" json:"view_mode,omitempty"`
}

// IconFile points to an uploaded marker icon.
type IconFile struct {
	File string `yaml:"icon_file" json:"icon_file"`
}

// OMS configures the Overlapping Marker Spiderfier.
type OMS struct {
	Control bool   `yaml:"map_oms_control" json:"map_oms_control"`
	Options string `yaml:"map_oms_options" json:"map_oms_options"`
}

// CustomStyle adds a styled map type.
type CustomStyle struct {
	Control bool   `yaml:"custom_style_control" json:"custom_style_control"`
	Name    string `yaml:"custom_style_name"    json:"custom_style_name"`
	Options string `yaml:"custom_style_options" json:"custom_style_options"`
	Default bool   `yaml:"custom_style_default" json:"custom_style_default"`
}

// MarkerCluster configures the marker clusterer.
type MarkerCluster struct {
	Control           bool   `yaml:"markercluster_control"            json:"markercluster_control"`
	AdditionalOptions string `yaml:"markercluster_additional_options" json:"markercluster_additional_options"`
}

// Defaults returns the settings used when a display does not override them.
func Defaults() Settings {
	return Settings{
		Dimensions: Dimensions{Width: "100%", Height: "450px"},
		Empty: Empty{
			Behaviour: EmptyHide,
			Message:   "No Geofield Value entered for this field",
		},
		Center: Center{Lat: 42, Lon: 12.5},
		ZoomAndPan: ZoomAndPan{
			Zoom:            Zoom{Initial: 6, Min: MinZoomLevel, Max: MaxZoomLevel},
			GestureHandling: "auto",
			Scrollwheel:     true,
			Draggable:       true,
		},
		Controls: Controls{
			ZoomControl:    true,
			MapTypeID:      "roadmap",
			MapTypeControl: true,
			MapTypeIDs:     TypeIDs{"roadmap", "satellite", "hybrid", "terrain"},
			ScaleControl:   true,
			StreetView:     true,
			Fullscreen:     true,
		},
		MarkerAndInfowindow: MarkerAndInfowindow{
			IconImageMode:   "icon_file",
			InfowindowField: "title",
		},
		OMS: OMS{Control: true, Options: DefaultOMSOptions},
	}
}

// Overlay decodes a partial YAML settings node on top of base.
// Keys missing from node keep the base values.
func Overlay(base Settings, node *yaml.Node) (Settings, error) {
	s := base.Clone()
	if node == nil || node.Kind == 0 {
		return s, nil
	}

	if err := node.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode map settings: %w", err)
	}

	return s, nil
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	c := s
	c.Controls.MapTypeIDs = append(TypeIDs(nil), s.Controls.MapTypeIDs...)
	return c
}

// Descriptions selects the infowindow values handed to the feature builder.
// Without multivalue split only the first value is used, for every feature.
func Descriptions(values []string, split bool) []string {
	if split || len(values) <= 1 {
		return values
	}

	return values[:1]
}

// TypeIDs is the set of map types available in the map type control.
// In YAML it is either a list of ids or a mapping of id to a value,
// where false, 0 and empty values mark a disabled id.
type TypeIDs []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TypeIDs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*t = ids
		return nil

	case yaml.MappingNode:
		ids := make(TypeIDs, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i].Value, node.Content[i+1].Value
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "", "0", "false", "no", "off":
				continue
			}
			ids = append(ids, key)
		}
		*t = ids
		return nil

	default:
		return fmt.Errorf("line %d: map type ids must be a list or a mapping", node.Line)
	}
}
