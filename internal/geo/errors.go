package geo

import "errors"

// Common errors returned by the geo package.
var (
	// ErrInvalidGeometry is returned when a geometry source yields no
	// features, or the dissolved geometry is empty. Fatal: the pipeline
	// aborts before any grid work.
	ErrInvalidGeometry = errors.New("invalid or empty AOI geometry")

	// ErrInvalidFrame is returned when a coordinate reference label cannot
	// be parsed into an EPSG code.
	ErrInvalidFrame = errors.New("invalid coordinate reference frame")

	// ErrUnsupportedTransform is returned when no transform exists between
	// two frames.
	ErrUnsupportedTransform = errors.New("unsupported frame transform")
)
