package mosaic

import (
	"errors"
	"math"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
	"github.com/sparkgeo/serverless-datacube-demo/internal/grid"
)

// ErrNoResolution is returned when Align is called with a non-positive
// resolution.
var ErrNoResolution = errors.New("mosaic resolution must be positive")

// Grid is the resolution-snapped raster mosaic grid derived from a cell
// set's combined extent: origin, integer size, frame and affine transform.
// It is computed once and read-only thereafter.
type Grid struct {
	OriginX    float64
	OriginY    float64
	Width      int
	Height     int
	Resolution float64
	Frame      geo.Frame
	Transform  Affine
}

// Covers reports whether the grid fully contains the rectangle
// (minX, minY)-(maxX, maxY).
func (g *Grid) Covers(minX, minY, maxX, maxY float64) bool {
	gMaxX := g.OriginX + float64(g.Width)*g.Resolution
	gMinY := g.OriginY - float64(g.Height)*g.Resolution
	return g.OriginX <= minX && gMaxX >= maxX && g.OriginY >= maxY && gMinY <= minY
}

// Align reprojects the cells into the target frame and derives the
// resolution-snapped raster grid covering their combined extent.
//
// The combined bounding box is snapped outward to multiples of the
// resolution (minima floored, maxima ceiled) so the grid never shrinks
// inside the source bounds. Width and height are the rounded span over the
// resolution, and the affine transform maps raster cell (0,0) to world
// coordinate (xmin, ymax) with column step +resolution and row step
// -resolution.
//
// Align is pure and deterministic: identical cell bounds and resolution
// always yield an identical grid.
func Align(cells *grid.CellSet, target geo.Frame, resolution float64) (*Grid, error) {
	if resolution <= 0 {
		return nil, ErrNoResolution
	}

	target = target.OrCanonical()
	projected, err := cells.Reproject(target)
	if err != nil {
		return nil, err
	}

	b := projected.Bound()
	xmin := math.Floor(b.Min[0]/resolution) * resolution
	ymin := math.Floor(b.Min[1]/resolution) * resolution
	xmax := math.Ceil(b.Max[0]/resolution) * resolution
	ymax := math.Ceil(b.Max[1]/resolution) * resolution

	width := int(math.Round((xmax - xmin) / resolution))
	height := int(math.Round((ymax - ymin) / resolution))

	transform := Translation(xmin, ymax).Mul(Scale(resolution, -resolution))

	return &Grid{
		OriginX:    xmin,
		OriginY:    ymax,
		Width:      width,
		Height:     height,
		Resolution: resolution,
		Frame:      target,
		Transform:  transform,
	}, nil
}
