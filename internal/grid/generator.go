package grid

import (
	"context"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

// Generator produces a covering set of grid cells for an AOI. All
// implementations share one contract: the returned CellSet is in the
// canonical frame, non-empty, with unique ids and non-empty geometries.
// A strategy that produces zero cells fails with ErrEmptyGrid; no partial
// grid is ever returned.
type Generator interface {
	Generate(ctx context.Context, aoi geo.AOI) (*CellSet, error)
}

// finish applies the shared output contract to a freshly generated set.
func finish(cs *CellSet) (*CellSet, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}
