// Package grid generates covering cell sets for an AOI via pluggable
// strategies: delegation to an optional external grid capability, regular
// square tiling in a projected working frame, and adaptation of arbitrary
// custom tiling functions. All strategies share one output contract.
package grid
