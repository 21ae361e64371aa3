package grid

import "errors"

// Common errors returned by grid generators.
var (
	// ErrEmptyGrid is returned when a strategy produced zero cells.
	// Fatal: no partial grid is ever returned.
	ErrEmptyGrid = errors.New("grid generator produced no cells")

	// ErrStrategyUnavailable is returned at construction time when an
	// optional generator dependency is missing. This is a capability
	// probe, not a crash on use.
	ErrStrategyUnavailable = errors.New("grid strategy unavailable")

	// ErrInvalidGeneratorOutput is returned when a custom adapter violates
	// its contract (e.g. a candidate without geometry).
	ErrInvalidGeneratorOutput = errors.New("invalid generator output")

	// ErrDuplicateCellID is returned when a cell id occurs more than once
	// within one cell set.
	ErrDuplicateCellID = errors.New("duplicate cell id")
)
