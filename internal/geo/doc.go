// Package geo provides the canonical geometric building blocks of the
// pipeline: coordinate frames identified by EPSG code, deterministic
// point transforms between frames, opaque geometry sources, and AOI
// normalization (dissolve to a single geometry in lon/lat).
package geo
