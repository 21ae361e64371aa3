package grid

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

func rect(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}
}

// Square tests run with the canonical frame as the working frame so that
// reprojection is the identity and coordinates can be asserted exactly.
func squareSpec(cellSize int) Spec {
	return Spec{CellSize: cellSize, TargetFrame: geo.Canonical, Resolution: 16, IDField: "grid_id"}
}

func TestSquareGeneratorFullCoverage(t *testing.T) {
	t.Parallel()

	aoi := geo.AOI{Geometry: rect(0, 0, 1200, 900)}
	gen := NewSquareGenerator(squareSpec(500))

	cells, err := gen.Generate(context.Background(), aoi)
	require.NoError(t, err)

	// Snapped box (0,0)-(1500,1000): 3 columns by 2 rows, all intersecting.
	require.Equal(t, 6, cells.Len())
	assert.Equal(t, geo.Canonical, cells.Frame)
	for i, c := range cells.Cells {
		assert.Equal(t, fmt.Sprintf("square_%d", i), c.ID)
	}

	// Row-major enumeration: y ascends in the outer loop.
	first := cells.Cells[0].Geometry.Bound()
	assert.Equal(t, orb.Point{0, 0}, first.Min)
	second := cells.Cells[1].Geometry.Bound()
	assert.Equal(t, 500.0, second.Min[0])
	assert.Equal(t, 0.0, second.Min[1])
	fourth := cells.Cells[3].Geometry.Bound()
	assert.Equal(t, 500.0, fourth.Min[1])

	// Edge cells are clipped to the AOI extent.
	last := cells.Cells[5].Geometry.Bound()
	assert.Equal(t, 1200.0, last.Max[0])
	assert.Equal(t, 900.0, last.Max[1])
}

func TestSquareGeneratorDiscardsNonIntersecting(t *testing.T) {
	t.Parallel()

	// Right triangle with legs of 900: the (500,500)-(1000,1000) square of
	// the snapped 2x2 lattice misses it entirely.
	triangle := orb.Polygon{orb.Ring{{0, 0}, {900, 0}, {0, 900}, {0, 0}}}
	gen := NewSquareGenerator(squareSpec(500))

	cells, err := gen.Generate(context.Background(), geo.AOI{Geometry: triangle})
	require.NoError(t, err)

	require.Equal(t, 3, cells.Len())
	// Ids are assigned before clipping, so survivors keep their lattice
	// positions even when later squares are discarded.
	assert.Equal(t, "square_0", cells.Cells[0].ID)
	assert.Equal(t, "square_1", cells.Cells[1].ID)
	assert.Equal(t, "square_2", cells.Cells[2].ID)
}

func TestSquareGeneratorEmptyIntersection(t *testing.T) {
	t.Parallel()

	// A degenerate AOI with no interior produces no surviving cells.
	sliver := orb.Polygon{orb.Ring{{0, 0}, {100, 0}, {0, 0}}}
	gen := NewSquareGenerator(squareSpec(500))

	_, err := gen.Generate(context.Background(), geo.AOI{Geometry: sliver})
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestSquareGeneratorCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewSquareGenerator(squareSpec(500))
	_, err := gen.Generate(ctx, geo.AOI{Geometry: rect(0, 0, 1200, 900)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapBound(t *testing.T) {
	t.Parallel()

	b := orb.Bound{Min: orb.Point{10, -20}, Max: orb.Point{1230, 987}}
	snapped := SnapBound(b, 500)

	assert.Equal(t, orb.Point{0, -500}, snapped.Min)
	assert.Equal(t, orb.Point{1500, 1000}, snapped.Max)
}

func TestLatticeSize(t *testing.T) {
	t.Parallel()

	b := orb.Bound{Min: orb.Point{10, -20}, Max: orb.Point{1230, 987}}
	cols, rows := LatticeSize(b, 500)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 3, rows)

	// An already-aligned box snaps to itself.
	aligned := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1000, 500}}
	cols, rows = LatticeSize(aligned, 500)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1, rows)
}
