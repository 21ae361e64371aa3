package grid

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

// CellCandidate is one (geometry, optional id) pair produced by an external
// grid capability or a custom generator function.
type CellCandidate struct {
	ID       string
	Geometry orb.Geometry
}

// ExternalGrid is the optional external grid-indexing capability. It covers
// an AOI with cells of the external system's own identity scheme,
// parameterized by a cell-size token and an overlap flag. Geometries are
// expected in the canonical lon/lat frame.
type ExternalGrid interface {
	GenerateCells(ctx context.Context, aoi orb.Geometry, cellSize int, overlap bool) ([]CellCandidate, error)
}

// ExternalGenerator delegates cell generation to an ExternalGrid capability.
// Cell ids are taken verbatim from the external system.
type ExternalGenerator struct {
	capability ExternalGrid
	cellSize   int
	overlap    bool
}

// NewExternalGenerator probes the capability at construction time and fails
// with ErrStrategyUnavailable when it is absent, rather than crashing on
// first use.
func NewExternalGenerator(capability ExternalGrid, spec Spec) (*ExternalGenerator, error) {
	if capability == nil {
		return nil, fmt.Errorf("%w: no external grid capability registered", ErrStrategyUnavailable)
	}
	return &ExternalGenerator{
		capability: capability,
		cellSize:   spec.CellSize,
		overlap:    spec.Overlap,
	}, nil
}

// Generate implements Generator.
func (g *ExternalGenerator) Generate(ctx context.Context, aoi geo.AOI) (*CellSet, error) {
	candidates, err := g.capability.GenerateCells(ctx, aoi.Geometry, g.cellSize, g.overlap)
	if err != nil {
		return nil, fmt.Errorf("external grid generation failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: external grid generated 0 cells; check AOI extent and parameters", ErrEmptyGrid)
	}

	cells := make([]Cell, 0, len(candidates))
	for _, c := range candidates {
		if c.Geometry == nil {
			return nil, fmt.Errorf("%w: candidate %q has no geometry", ErrInvalidGeneratorOutput, c.ID)
		}
		cells = append(cells, Cell{ID: c.ID, Geometry: c.Geometry})
	}

	return finish(&CellSet{Frame: geo.Canonical, Cells: cells})
}
