package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one entry yielded by a geometry source: a geometry plus the
// frame it was declared in. A zero frame means the source declared none and
// defaults to the canonical frame.
type Feature struct {
	Geometry orb.Geometry
	Frame    Frame
}

// Source is an opaque iterator over the features of a vector container.
// Sources yield every feature exactly once; Normalize consumes them without
// knowing anything about the underlying format.
type Source interface {
	// Features returns all features of the source.
	Features() ([]Feature, error)
}

// GeoJSONSource reads a GeoJSON FeatureCollection file. GeoJSON geometries
// are lon/lat by specification, so every feature is yielded in the canonical
// frame.
type GeoJSONSource struct {
	Path string
}

// Features implements Source.
func (s GeoJSONSource) Features() ([]Feature, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry file %q: %w", s.Path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geometry file %q: %w", s.Path, err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, Feature{Geometry: f.Geometry, Frame: Canonical})
	}
	return features, nil
}

// SliceSource adapts an in-memory feature slice to the Source interface.
type SliceSource []Feature

// Features implements Source.
func (s SliceSource) Features() ([]Feature, error) {
	return s, nil
}

// BoundSource yields a single rectangular feature from min/max lon/lat
// coordinates. It backs the bbox configuration path.
type BoundSource struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Features implements Source.
func (s BoundSource) Features() ([]Feature, error) {
	b := orb.Bound{
		Min: orb.Point{s.MinLon, s.MinLat},
		Max: orb.Point{s.MaxLon, s.MaxLat},
	}
	return []Feature{{Geometry: b.ToPolygon(), Frame: Canonical}}, nil
}
