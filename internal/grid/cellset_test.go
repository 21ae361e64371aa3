package grid

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
)

func TestCellSetValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     CellSet
		wantErr error
	}{
		{
			name:    "empty set",
			set:     CellSet{Frame: geo.Canonical},
			wantErr: ErrEmptyGrid,
		},
		{
			name: "duplicate ids",
			set: CellSet{Frame: geo.Canonical, Cells: []Cell{
				{ID: "a", Geometry: rect(0, 0, 1, 1)},
				{ID: "a", Geometry: rect(1, 0, 2, 1)},
			}},
			wantErr: ErrDuplicateCellID,
		},
		{
			name: "empty geometry",
			set: CellSet{Frame: geo.Canonical, Cells: []Cell{
				{ID: "a", Geometry: orb.Polygon{}},
			}},
			wantErr: ErrInvalidGeneratorOutput,
		},
		{
			name: "valid",
			set: CellSet{Frame: geo.Canonical, Cells: []Cell{
				{ID: "a", Geometry: rect(0, 0, 1, 1)},
				{ID: "b", Geometry: rect(1, 0, 2, 1)},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.set.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCellSetBound(t *testing.T) {
	t.Parallel()

	cs := CellSet{Frame: geo.Canonical, Cells: []Cell{
		{ID: "a", Geometry: rect(0, 0, 1, 1)},
		{ID: "b", Geometry: rect(5, -3, 7, 2)},
	}}

	b := cs.Bound()
	assert.Equal(t, orb.Point{0, -3}, b.Min)
	assert.Equal(t, orb.Point{7, 2}, b.Max)
}

func TestCellSetReprojectIdentity(t *testing.T) {
	t.Parallel()

	cs := &CellSet{Frame: geo.Canonical, Cells: []Cell{
		{ID: "a", Geometry: rect(0, 0, 1, 1)},
		{ID: "b", Geometry: rect(1, 0, 2, 1)},
	}}

	out, err := cs.Reproject(geo.Canonical)
	require.NoError(t, err)
	require.Equal(t, cs.Len(), out.Len())

	for i := range cs.Cells {
		assert.Equal(t, cs.Cells[i].ID, out.Cells[i].ID)
		assert.Equal(t, cs.Cells[i].Geometry, out.Cells[i].Geometry)
	}

	// The result is a distinct value: mutating it leaves the input intact.
	out.Cells[0].ID = "mutated"
	assert.Equal(t, "a", cs.Cells[0].ID)
}
