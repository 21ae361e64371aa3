package cube

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// Bounds is a lon/lat bounding box: min_lon, min_lat, max_lon, max_lat.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// JobConfig describes the data cube a batch fills and derives the per-tile
// jobs that fill it. It is constructed once per run from already-validated
// configuration.
type JobConfig struct {
	// Resolution is the cube's spatial resolution in degrees.
	Resolution float64
	// EPSG is the cube's frame code (4326 only).
	EPSG int
	// Bounds is the cube's lon/lat extent.
	Bounds Bounds
	// StartDate and EndDate bound the cube's time axis; everything but
	// year and month is ignored.
	StartDate time.Time
	EndDate   time.Time
	// FrequencyMonths is the temporal sampling frequency.
	FrequencyMonths int
	// Bands are the band names of the cube variable.
	Bands []string
	// VarName names the cube variable chunks are stored under.
	VarName string
	// ChunkSize is the spatial chunk edge length in pixels.
	ChunkSize int

	// Processor computes a tile's pixels. Consumed opaquely: the numeric
	// content of processing is outside the pipeline core. Nil selects
	// FillProcessor(0).
	Processor Processor
}

// Schema is the dataset-level metadata written to the array store before
// any job runs.
type Schema struct {
	VarName    string   `json:"varname"`
	Shape      [4]int   `json:"shape"` // time, y, x, band
	ChunkShape [4]int   `json:"chunk_shape"`
	DType      string   `json:"dtype"`
	Dims       []string `json:"dims"`
	Bands      []string `json:"bands"`
	Resolution float64  `json:"resolution"`
	EPSG       int      `json:"epsg"`
	Bounds     [4]float64 `json:"bounds"`
}

// width and height of the cube's full pixel plane.
func (c *JobConfig) planeSize() (nx, ny int) {
	nx = int(math.Ceil((c.Bounds.MaxLon - c.Bounds.MinLon) / c.Resolution))
	ny = int(math.Ceil((c.Bounds.MaxLat - c.Bounds.MinLat) / c.Resolution))
	return nx, ny
}

// timeSteps returns the number of samples on the time axis.
func (c *JobConfig) timeSteps() int {
	start := time.Date(c.StartDate.Year(), c.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(c.EndDate.Year(), c.EndDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if months < 0 {
		return 0
	}
	return months/c.FrequencyMonths + 1
}

// NumTiles returns the number of spatial chunk tiles covering the plane.
func (c *JobConfig) NumTiles() int {
	nx, ny := c.planeSize()
	cols := (nx + c.ChunkSize - 1) / c.ChunkSize
	rows := (ny + c.ChunkSize - 1) / c.ChunkSize
	return cols * rows
}

// NumJobs returns the number of jobs a full batch generates: one per tile.
func (c *JobConfig) NumJobs() int {
	return c.NumTiles()
}

// Schema derives the dataset schema from the config.
func (c *JobConfig) Schema() Schema {
	nx, ny := c.planeSize()
	nt := c.timeSteps()
	return Schema{
		VarName:    c.VarName,
		Shape:      [4]int{nt, ny, nx, len(c.Bands)},
		ChunkShape: [4]int{1, c.ChunkSize, c.ChunkSize, len(c.Bands)},
		DType:      "uint8",
		Dims:       []string{"time", "latitude", "longitude", "band"},
		Bands:      c.Bands,
		Resolution: c.Resolution,
		EPSG:       c.EPSG,
		Bounds:     [4]float64{c.Bounds.MinLon, c.Bounds.MinLat, c.Bounds.MaxLon, c.Bounds.MaxLat},
	}
}

// CreateDatasetSchema writes the dataset schema into the array store. For
// the transactional backend this staged write becomes durable at commit
// time together with the chunks.
func (c *JobConfig) CreateDatasetSchema(ctx context.Context, array storage.Array) error {
	data, err := json.Marshal(c.Schema())
	if err != nil {
		return fmt.Errorf("failed to encode dataset schema: %w", err)
	}
	if err := array.PutMeta(ctx, c.VarName+"/.schema", data); err != nil {
		return fmt.Errorf("failed to write dataset schema: %w", err)
	}
	return nil
}

// GenerateJobs enumerates one job per spatial chunk tile, row-major over
// the chunk lattice. A positive limit caps the number of jobs generated.
func (c *JobConfig) GenerateJobs(limit int) []*TileJob {
	nx, ny := c.planeSize()
	cols := (nx + c.ChunkSize - 1) / c.ChunkSize
	rows := (ny + c.ChunkSize - 1) / c.ChunkSize
	nt := c.timeSteps()

	processor := c.Processor
	if processor == nil {
		processor = FillProcessor(0)
	}

	jobs := make([]*TileJob, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if limit > 0 && len(jobs) >= limit {
				return jobs
			}
			jobs = append(jobs, newTileJob(c, Tile{
				Col:       col,
				Row:       row,
				Width:     min(c.ChunkSize, nx-col*c.ChunkSize),
				Height:    min(c.ChunkSize, ny-row*c.ChunkSize),
				TimeSteps: nt,
				Bands:     len(c.Bands),
			}, processor))
		}
	}
	return jobs
}
