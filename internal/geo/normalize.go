package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AOI is the normalized area of interest: a single polygonal geometry in the
// canonical lon/lat frame. An AOI is created once per run and never mutated.
type AOI struct {
	Geometry orb.Geometry
}

// Bound returns the lon/lat bounding box of the AOI.
func (a AOI) Bound() orb.Bound {
	return a.Geometry.Bound()
}

// Normalize dissolves all non-empty feature geometries of the source into a
// single geometry and expresses it in the canonical lon/lat frame. This is a
// format-only transform: topology, holes and validity pass through
// unmodified. It fails with ErrInvalidGeometry when the source yields zero
// features or the dissolved geometry is empty.
//
// Normalize is a pure function of its input: normalizing the same source
// twice yields geometrically equal output.
func Normalize(src Source) (AOI, error) {
	features, err := src.Features()
	if err != nil {
		return AOI{}, err
	}
	if len(features) == 0 {
		return AOI{}, fmt.Errorf("%w: source yielded no features", ErrInvalidGeometry)
	}

	parts := make([]orb.Geometry, 0, len(features))
	for _, f := range features {
		if IsEmpty(f.Geometry) {
			continue
		}
		g := f.Geometry
		if frame := f.Frame.OrCanonical(); !frame.IsCanonical() {
			g, err = Reproject(g, frame, Canonical)
			if err != nil {
				return AOI{}, err
			}
		}
		parts = append(parts, g)
	}

	dissolved := dissolve(parts)
	if IsEmpty(dissolved) {
		return AOI{}, fmt.Errorf("%w: geometry is empty after dissolve", ErrInvalidGeometry)
	}

	return AOI{Geometry: dissolved}, nil
}

// dissolve merges the parts into one geometry. A single part passes through
// untouched; polygonal parts flatten into one MultiPolygon; anything else
// becomes a Collection. No overlay operation is performed: overlapping
// parts stay multi-part, which downstream bounds and clipping treat
// identically.
func dissolve(parts []orb.Geometry) orb.Geometry {
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}

	mp := orb.MultiPolygon{}
	for _, g := range parts {
		switch v := g.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		default:
			// Mixed geometry types fall back to a collection.
			return orb.Collection(parts)
		}
	}
	return mp
}

// IsEmpty reports whether a geometry carries no content: nil geometries,
// polygons without vertices, and collections of only-empty members.
func IsEmpty(g orb.Geometry) bool {
	switch v := g.(type) {
	case nil:
		return true
	case orb.Polygon:
		return len(v) == 0 || len(v[0]) == 0
	case orb.MultiPolygon:
		for _, p := range v {
			if !IsEmpty(p) {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, m := range v {
			if !IsEmpty(m) {
				return false
			}
		}
		return true
	case orb.Ring:
		return len(v) == 0
	case orb.LineString:
		return len(v) == 0
	case orb.MultiLineString:
		return len(v) == 0
	case orb.MultiPoint:
		return len(v) == 0
	default:
		return false
	}
}

// PolygonalArea returns the planar area of the polygonal parts of g in the
// units of its frame. Used to discard degenerate clip results.
func PolygonalArea(g orb.Geometry) float64 {
	if g == nil {
		return 0
	}
	return planar.Area(g)
}
