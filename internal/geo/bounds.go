package geo

import "github.com/paulmach/orb"

// Bounds returns the bounding box of all feature geometries.
// The second value is false when there is nothing to bound.
func Bounds(features []Feature) (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)

	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		g := f.Geometry.Geometry()
		if g == nil {
			continue
		}

		b := g.Bound()
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}

	return bound, found
}
