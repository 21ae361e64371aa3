package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

type fakeExternalGrid struct {
	candidates []CellCandidate
	err        error

	gotCellSize int
	gotOverlap  bool
}

func (f *fakeExternalGrid) GenerateCells(ctx context.Context, aoi orb.Geometry, cellSize int, overlap bool) ([]CellCandidate, error) {
	f.gotCellSize = cellSize
	f.gotOverlap = overlap
	return f.candidates, f.err
}

func TestNewExternalGeneratorWithoutCapability(t *testing.T) {
	t.Parallel()

	_, err := NewExternalGenerator(nil, DefaultSpec())
	assert.ErrorIs(t, err, ErrStrategyUnavailable)
}

func TestExternalGeneratorVerbatimIDs(t *testing.T) {
	t.Parallel()

	fake := &fakeExternalGrid{candidates: []CellCandidate{
		{ID: "8928308280fffff", Geometry: rect(0, 0, 1, 1)},
		{ID: "8928308280bffff", Geometry: rect(1, 0, 2, 1)},
	}}

	spec := Spec{CellSize: 9, Overlap: true, TargetFrame: geo.Canonical}
	gen, err := NewExternalGenerator(fake, spec)
	require.NoError(t, err)

	cells, err := gen.Generate(context.Background(), geo.AOI{Geometry: rect(0, 0, 2, 1)})
	require.NoError(t, err)

	require.Equal(t, 2, cells.Len())
	assert.Equal(t, "8928308280fffff", cells.Cells[0].ID)
	assert.Equal(t, "8928308280bffff", cells.Cells[1].ID)
	assert.Equal(t, 9, fake.gotCellSize)
	assert.True(t, fake.gotOverlap)
}

func TestExternalGeneratorZeroCells(t *testing.T) {
	t.Parallel()

	gen, err := NewExternalGenerator(&fakeExternalGrid{}, DefaultSpec())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), geo.AOI{Geometry: rect(0, 0, 1, 1)})
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestExternalGeneratorCandidateWithoutGeometry(t *testing.T) {
	t.Parallel()

	fake := &fakeExternalGrid{candidates: []CellCandidate{{ID: "broken"}}}
	gen, err := NewExternalGenerator(fake, DefaultSpec())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), geo.AOI{Geometry: rect(0, 0, 1, 1)})
	assert.ErrorIs(t, err, ErrInvalidGeneratorOutput)
}

func TestExternalGeneratorPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("index service down")
	gen, err := NewExternalGenerator(&fakeExternalGrid{err: boom}, DefaultSpec())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), geo.AOI{Geometry: rect(0, 0, 1, 1)})
	assert.ErrorIs(t, err, boom)
}
