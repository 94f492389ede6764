package geo

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Item is a stored geofield value as handed to BuildFeatures.
type Item interface {
	// GeofieldValue returns the stored text and whether it comes from a typed
	// field item. Typed values are loaded in any supported format, raw values
	// only when they look like a WKT point.
	GeofieldValue() (value string, typed bool)
}

// RawValue is an untyped geofield value, usually a WKT string.
type RawValue string

// GeofieldValue implements Item.
func (r RawValue) GeofieldValue() (string, bool) {
	return string(r), false
}

// FieldItem mirrors the columns of a stored geofield item.
type FieldItem struct {
	Value   string  `json:"value"              yaml:"value"`
	GeoType string  `json:"geo_type,omitempty" yaml:"geo_type,omitempty"`
	Geohash string  `json:"geohash,omitempty"  yaml:"geohash,omitempty"`
	Lat     float64 `json:"lat,omitempty"      yaml:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"      yaml:"lon,omitempty"`
	Left    float64 `json:"left,omitempty"     yaml:"left,omitempty"`
	Top     float64 `json:"top,omitempty"      yaml:"top,omitempty"`
	Right   float64 `json:"right,omitempty"    yaml:"right,omitempty"`
	Bottom  float64 `json:"bottom,omitempty"   yaml:"bottom,omitempty"`
}

// GeofieldValue implements Item.
func (f FieldItem) GeofieldValue() (string, bool) {
	return f.Value, true
}

// Items is a list of geofield values decoded from JSON or YAML, where each
// element is either a string (RawValue) or an object (FieldItem).
type Items []Item

// UnmarshalJSON implements json.Unmarshaler.
func (it *Items) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Items, 0, len(raw))
	for i, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, RawValue(s))
			continue
		}

		var f FieldItem
		if err := json.Unmarshal(r, &f); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, f)
	}

	*it = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (it *Items) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: items must be a sequence", node.Line)
	}

	out := make(Items, 0, len(node.Content))
	for _, n := range node.Content {
		switch n.Kind {
		case yaml.ScalarNode:
			out = append(out, RawValue(n.Value))
		case yaml.MappingNode:
			var f FieldItem
			if err := n.Decode(&f); err != nil {
				return err
			}
			out = append(out, f)
		default:
			return fmt.Errorf("line %d: item must be a string or a mapping", n.Line)
		}
	}

	*it = out
	return nil
}
