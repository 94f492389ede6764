package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestIsPointText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"POINT(1 2)", true},
		{"POINT (1 2)", true},
		{"POINT Z (1 2 3)", true},
		{"point(1 2)", false},
		{" POINT(1 2)", false},
		{"POINT EMPTY", false},
		{"MULTIPOINT((1 2))", false},
		{"POINT(1 2) trailing", false},
		{"POINT(1 2)\n", true},
		{"POINT(1 2)\n\n", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPointText(tc.input))
		})
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  orb.Geometry
	}{
		{"wkt", "POINT(12.5 42)", orb.Point{12.5, 42}},
		{"wkt with spaces", "  POINT (1 2)  ", orb.Point{1, 2}},
		{"wkb hex", "0101000000000000000000F03F0000000000000040", orb.Point{1, 2}},
		{"geojson geometry", `{"type":"Point","coordinates":[3,4]}`, orb.Point{3, 4}},
		{"wkt z", "POINT Z (1 2 3)", orb.Point{1, 2}},
		{"wkt zm", "POINT ZM (1 2 3 4)", orb.Point{1, 2}},
		{"wkt untagged 3d", "POINT(1.5 -2e1 3)", orb.Point{1.5, -20}},
		{"wkt linestring z", "LINESTRING Z (0 0 1, 1 1 2)", orb.LineString{{0, 0}, {1, 1}}},
		{"geojson feature", `{"type":"Feature","geometry":{"type":"Point","coordinates":[5,6]},"properties":{}}`, orb.Point{5, 6}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Load(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, g)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "garbage", "00ff", `{"type":"Nope"}`} {
		t.Run(input, func(t *testing.T) {
			_, err := Load(input)
			assert.Error(t, err)
		})
	}

	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestLoadRejectsNonFinite(t *testing.T) {
	inputs := []string{
		"POINT(NaN 1)",
		"POINT(1 Inf)",
		"LINESTRING(0 0, NaN 1)",
		"POLYGON((0 0, 1 0, 1 -Inf, 0 0))",
		// POINT(NaN 0) as little-endian WKB
		"0101000000000000000000F87F0000000000000000",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Load(input)
			assert.Error(t, err)
		})
	}
}

func TestItemsUnmarshal(t *testing.T) {
	want := Items{RawValue("POINT(1 2)"), FieldItem{Value: "POINT(3 4)", GeoType: "point"}}

	t.Run("json", func(t *testing.T) {
		var items Items
		err := json.Unmarshal([]byte(`["POINT(1 2)", {"value": "POINT(3 4)", "geo_type": "point"}]`), &items)
		require.NoError(t, err)
		assert.Equal(t, want, items)
	})

	t.Run("yaml", func(t *testing.T) {
		var items Items
		err := yaml.Unmarshal([]byte("- POINT(1 2)\n- value: POINT(3 4)\n  geo_type: point\n"), &items)
		require.NoError(t, err)
		assert.Equal(t, want, items)
	})

	t.Run("json invalid element", func(t *testing.T) {
		var items Items
		assert.Error(t, json.Unmarshal([]byte(`[1]`), &items))
	})
}

func TestBounds(t *testing.T) {
	features := BuildFeatures([]Item{
		RawValue("POINT(10 40)"),
		RawValue("POINT(12.5 42)"),
		FieldItem{Value: "LINESTRING(9 41, 11 43)"},
	}, nil, nil)

	b, ok := Bounds(features)
	require.True(t, ok)
	assert.Equal(t, orb.Point{9, 40}, b.Min)
	assert.Equal(t, orb.Point{12.5, 43}, b.Max)

	_, ok = Bounds(nil)
	assert.False(t, ok)
}
