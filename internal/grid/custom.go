package grid

import (
	"context"
	"fmt"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

// CustomFunc is an arbitrary externally supplied tiling function. It returns
// either a ready-made *CellSet or a []CellCandidate sequence of
// (geometry, optional id) pairs.
type CustomFunc func(ctx context.Context, aoi geo.AOI) (any, error)

// CustomGenerator wraps a CustomFunc and normalizes its output to the shared
// generator contract.
type CustomGenerator struct {
	fn CustomFunc
}

// NewCustomGenerator wraps fn as a Generator.
func NewCustomGenerator(fn CustomFunc) *CustomGenerator {
	return &CustomGenerator{fn: fn}
}

// Generate implements Generator.
//
// Normalization rules: a ready CellSet whose frame is absent or a synonym of
// the canonical frame is relabeled, not reprojected; any other frame is
// reprojected into the canonical frame. Candidates with missing ids get
// sequential ids in iteration order; a candidate without geometry is a hard
// error.
func (g *CustomGenerator) Generate(ctx context.Context, aoi geo.AOI) (*CellSet, error) {
	out, err := g.fn(ctx, aoi)
	if err != nil {
		return nil, fmt.Errorf("custom generator failed: %w", err)
	}

	switch v := out.(type) {
	case *CellSet:
		return g.normalizeSet(v)
	case []CellCandidate:
		return g.normalizeCandidates(v)
	case nil:
		return nil, fmt.Errorf("%w: custom generator returned nothing", ErrInvalidGeneratorOutput)
	default:
		return nil, fmt.Errorf("%w: custom generator returned %T", ErrInvalidGeneratorOutput, out)
	}
}

func (g *CustomGenerator) normalizeSet(cs *CellSet) (*CellSet, error) {
	if cs == nil || len(cs.Cells) == 0 {
		return nil, ErrEmptyGrid
	}

	if cs.Frame.IsZero() || cs.Frame.IsCanonical() {
		// Declared-canonical or undeclared: accept as-is, relabeled.
		relabeled := &CellSet{Frame: geo.Canonical, Cells: cs.Cells}
		return finish(relabeled)
	}

	reprojected, err := cs.Reproject(geo.Canonical)
	if err != nil {
		return nil, err
	}
	return finish(reprojected)
}

func (g *CustomGenerator) normalizeCandidates(candidates []CellCandidate) (*CellSet, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyGrid
	}

	cells := make([]Cell, 0, len(candidates))
	for i, c := range candidates {
		if c.Geometry == nil {
			return nil, fmt.Errorf("%w: custom generator must supply geometry for every cell", ErrInvalidGeneratorOutput)
		}
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("cell_%d", i)
		}
		cells = append(cells, Cell{ID: id, Geometry: c.Geometry})
	}

	return finish(&CellSet{Frame: geo.Canonical, Cells: cells})
}
