package grid

import "github.com/sparkgeo/serverless-datacube-demo/internal/geo"

// Spec is the immutable grid configuration, constructed once per run.
type Spec struct {
	// CellSize is the cell side length in meters of the working frame, or
	// the external grid's cell-size token.
	CellSize int
	// Overlap enables overlapping cells (external strategy only).
	Overlap bool
	// TargetFrame is the working projected frame cells are generated in
	// before being returned in the canonical frame.
	TargetFrame geo.Frame
	// Resolution is the mosaic alignment resolution in meters.
	Resolution int
	// IDField names the cell identifier attribute in exported records.
	IDField string
}

// DefaultSpec returns the Spec defaults: 512 m cells with overlap, UTM 10N
// working frame, 16 m mosaic resolution.
func DefaultSpec() Spec {
	return Spec{
		CellSize:    512,
		Overlap:     true,
		TargetFrame: geo.Frame{EPSG: 32610},
		Resolution:  16,
		IDField:     "grid_id",
	}
}
