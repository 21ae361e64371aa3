package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/wroge/wgs84"
)

// NewProjection returns a deterministic point transform from one frame to
// another. Identical frames yield the identity projection. The returned
// projection is safe for concurrent use.
func NewProjection(from, to Frame) (orb.Projection, error) {
	from = from.OrCanonical()
	to = to.OrCanonical()

	if from == to {
		return func(p orb.Point) orb.Point { return p }, nil
	}

	epsg := wgs84.EPSG()
	src := epsg.Code(from.EPSG)
	dst := epsg.Code(to.EPSG)
	if src == nil {
		return nil, fmt.Errorf("%w: unknown EPSG code %d", ErrUnsupportedTransform, from.EPSG)
	}
	if dst == nil {
		return nil, fmt.Errorf("%w: unknown EPSG code %d", ErrUnsupportedTransform, to.EPSG)
	}

	f := wgs84.Transform(src, dst)
	return func(p orb.Point) orb.Point {
		x, y, _ := f(p[0], p[1], 0)
		return orb.Point{x, y}
	}, nil
}

// Reproject returns the geometry expressed in the target frame. The input
// geometry is not modified; reprojection is exact in the sense that every
// vertex is transformed individually with no clipping or densification.
func Reproject(g orb.Geometry, from, to Frame) (orb.Geometry, error) {
	proj, err := NewProjection(from, to)
	if err != nil {
		return nil, err
	}
	return project.Geometry(orb.Clone(g), proj), nil
}
