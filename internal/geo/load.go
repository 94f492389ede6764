package geo

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// pointText matches raw point strings such as "POINT(12.5 42)" or "POINT Z (1 2 3)".
var pointText = regexp.MustCompile(`^(POINT).*\(.*.*\)$`)

var (
	// dimensionTag matches the Z, M and ZM markers of extended WKT.
	dimensionTag = regexp.MustCompile(`(?i)\b(POINT|LINESTRING|POLYGON|MULTIPOINT|MULTILINESTRING|MULTIPOLYGON|GEOMETRYCOLLECTION)\s*(?:ZM|Z|M)\s*\(`)
	// wideTuple matches a coordinate with three or four ordinates.
	wideTuple = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?(?:\s+[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?){2,3}`)
)

var (
	// ErrEmptyValue is returned by Load for blank input.
	ErrEmptyValue = errors.New("empty geometry value")
	// ErrNonFinite is returned by Load for geometries with NaN or infinite coordinates.
	ErrNonFinite = errors.New("geometry has non-finite coordinates")
)

// IsPointText reports whether s looks like a WKT point.
// The match is case-sensitive and anchored at the start of the string;
// a single trailing newline is ignored.
func IsPointText(s string) bool {
	return pointText.MatchString(strings.TrimSuffix(s, "\n"))
}

// Load parses a stored geometry value, detecting its format:
// GeoJSON when it starts with '{', hex encoded WKB when it is an even-length
// hex string, WKT otherwise. 3D and measured WKT is flattened to 2D.
// Geometries with NaN or infinite coordinates are rejected.
func Load(value string) (orb.Geometry, error) {
	g, err := load(value)
	if err != nil {
		return nil, err
	}
	if !finite(g) {
		return nil, ErrNonFinite
	}

	return g, nil
}

func load(value string) (orb.Geometry, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, ErrEmptyValue
	}

	switch {
	case s[0] == '{':
		return loadGeoJSON(s)
	case isHex(s):
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode wkb hex: %w", err)
		}
		g, err := wkb.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("parse wkb: %w", err)
		}
		return g, nil
	default:
		g, err := wkt.Unmarshal(flattenWKT(s))
		if err != nil {
			return nil, fmt.Errorf("parse wkt: %w", err)
		}
		return g, nil
	}
}

// loadGeoJSON accepts a bare geometry or a feature wrapping one.
func loadGeoJSON(s string) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry([]byte(s))
	if err == nil {
		return g.Geometry(), nil
	}

	f, ferr := geojson.UnmarshalFeature([]byte(s))
	if ferr != nil || f.Geometry == nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	return f.Geometry, nil
}

// flattenWKT drops dimension markers and every ordinate past x and y.
func flattenWKT(s string) string {
	s = dimensionTag.ReplaceAllString(s, "$1(")
	return wideTuple.ReplaceAllStringFunc(s, func(tuple string) string {
		xy := strings.Fields(tuple)
		return xy[0] + " " + xy[1]
	})
}

// finite reports whether every coordinate of g is a finite number.
func finite(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Point:
		return !math.IsNaN(g[0]) && !math.IsNaN(g[1]) && !math.IsInf(g[0], 0) && !math.IsInf(g[1], 0)
	case orb.MultiPoint:
		return finitePoints(g)
	case orb.LineString:
		return finitePoints(g)
	case orb.Ring:
		return finitePoints(g)
	case orb.MultiLineString:
		for _, ls := range g {
			if !finitePoints(ls) {
				return false
			}
		}
	case orb.Polygon:
		for _, r := range g {
			if !finitePoints(r) {
				return false
			}
		}
	case orb.MultiPolygon:
		for _, p := range g {
			if !finite(p) {
				return false
			}
		}
	case orb.Collection:
		for _, c := range g {
			if !finite(c) {
				return false
			}
		}
	case orb.Bound:
		return finite(g.Min) && finite(g.Max)
	}

	return true
}

func finitePoints(points []orb.Point) bool {
	for _, p := range points {
		if !finite(p) {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}

	return true
}
