// Package mosaic aligns generated cell sets to a resolution-snapped raster
// grid: a deterministic origin, integer size and affine transform covering
// the cells' combined extent in a working projected frame.
package mosaic
