package mosaic

// Affine is a 2D affine transform in row-major order:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// For a north-up raster grid, A is the column step (+resolution), E the row
// step (-resolution: rows increase downward while y decreases), and (C, F)
// the world coordinate of pixel (0, 0), the grid's top-left corner.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Translation returns the transform moving the origin to (tx, ty).
func Translation(tx, ty float64) Affine {
	return Affine{A: 1, C: tx, E: 1, F: ty}
}

// Scale returns the transform scaling by (sx, sy).
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, E: sy}
}

// Mul composes two transforms: applying the result equals applying o first,
// then a.
func (a Affine) Mul(o Affine) Affine {
	return Affine{
		A: a.A*o.A + a.B*o.D,
		B: a.A*o.B + a.B*o.E,
		C: a.A*o.C + a.B*o.F + a.C,
		D: a.D*o.A + a.E*o.D,
		E: a.D*o.B + a.E*o.E,
		F: a.D*o.C + a.E*o.F + a.F,
	}
}

// Apply maps (x, y) through the transform.
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.A*x + a.B*y + a.C, a.D*x + a.E*y + a.F
}
