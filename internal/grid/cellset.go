package grid

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

// Cell is one polygon of a generated grid, uniquely identified within its
// owning CellSet.
type Cell struct {
	ID       string
	Geometry orb.Geometry
}

// CellSet is an ordered collection of cells sharing one frame. Cell sets are
// created once per run; reprojection produces a new value rather than
// mutating in place.
type CellSet struct {
	Frame geo.Frame
	Cells []Cell
}

// Len returns the number of cells.
func (cs *CellSet) Len() int {
	return len(cs.Cells)
}

// Bound returns the combined bounding box of all cell geometries.
func (cs *CellSet) Bound() orb.Bound {
	var b orb.Bound
	for i, c := range cs.Cells {
		if i == 0 {
			b = c.Geometry.Bound()
			continue
		}
		b = b.Union(c.Geometry.Bound())
	}
	return b
}

// Reproject returns a new CellSet with every geometry expressed in the
// target frame. Cardinality and the id-to-geometry correspondence are
// preserved: geometry content changes, identity does not.
func (cs *CellSet) Reproject(target geo.Frame) (*CellSet, error) {
	proj, err := geo.NewProjection(cs.Frame, target)
	if err != nil {
		return nil, err
	}

	out := &CellSet{Frame: target.OrCanonical(), Cells: make([]Cell, len(cs.Cells))}
	for i, c := range cs.Cells {
		out.Cells[i] = Cell{
			ID:       c.ID,
			Geometry: project.Geometry(orb.Clone(c.Geometry), proj),
		}
	}
	return out, nil
}

// Validate checks the CellSet invariants: non-empty, unique ids, non-empty
// geometries.
func (cs *CellSet) Validate() error {
	if len(cs.Cells) == 0 {
		return ErrEmptyGrid
	}
	seen := make(map[string]struct{}, len(cs.Cells))
	for _, c := range cs.Cells {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateCellID, c.ID)
		}
		seen[c.ID] = struct{}{}
		if geo.IsEmpty(c.Geometry) {
			return fmt.Errorf("%w: cell %q has empty geometry", ErrInvalidGeneratorOutput, c.ID)
		}
	}
	return nil
}
