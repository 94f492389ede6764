package main

import (
	"strings"
	"testing"

	"github.com/woozymasta/geofieldmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadItems(t *testing.T) {
	input := "POINT(1 2)\n\n  LINESTRING(0 0, 1 1)  \n"

	raw, err := readItems(strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, geo.Items{geo.RawValue("POINT(1 2)"), geo.RawValue("LINESTRING(0 0, 1 1)")}, raw)

	typed, err := readItems(strings.NewReader(input), true)
	require.NoError(t, err)
	assert.Len(t, geo.BuildFeatures(typed, nil, nil), 2)
	assert.Len(t, geo.BuildFeatures(raw, nil, nil), 1)
}

func TestMarshal(t *testing.T) {
	fc := geo.NewFeatureCollection(geo.BuildFeatures(geo.Items{geo.RawValue("POINT(12.5 42)")}, []string{"Rome"}, nil))

	out, err := marshal(fc, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[12.5,42]},"properties":{"description":"Rome","data":null}}]}`, string(out))

	out, err = marshal(fc, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "type: FeatureCollection")
	assert.Contains(t, string(out), "description: Rome")
	assert.Contains(t, string(out), "- 12.5")
}
