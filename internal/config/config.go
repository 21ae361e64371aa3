package config

// Config holds all pipeline configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log      LogConfig      `mapstructure:"log"      validate:"required"`
	AOI      AOIConfig      `mapstructure:"aoi"      validate:"required"`
	Grid     GridConfig     `mapstructure:"grid"     validate:"required"`
	Cube     CubeConfig     `mapstructure:"cube"     validate:"required"`
	Dispatch DispatchConfig `mapstructure:"dispatch" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// AOIConfig selects the area of interest: either a geometry file (a GeoJSON
// FeatureCollection) or an explicit lon/lat bounding box.
type AOIConfig struct {
	GeometryFile string `mapstructure:"geometry_file" validate:"required_without=BBox"`
	// BBox is min_lon, min_lat, max_lon, max_lat. Used when no geometry
	// file is configured.
	BBox []float64 `mapstructure:"bbox" validate:"omitempty,len=4"`
}

// GridConfig contains grid generation settings.
type GridConfig struct {
	// Generator selects the cell generation strategy.
	Generator string `mapstructure:"generator" validate:"required,oneof=external square"`
	// CellSize is the cell side length in meters of the working frame
	// (square strategy) or the external grid's cell-size token.
	CellSize int `mapstructure:"cell_size" validate:"required,gt=0"`
	// Overlap enables overlapping cells (external strategy only).
	Overlap bool `mapstructure:"overlap"`
	// TargetCRS is the working projected frame, e.g. "EPSG:32610".
	TargetCRS string `mapstructure:"target_crs" validate:"required"`
	// Resolution is the mosaic alignment resolution in meters.
	Resolution int `mapstructure:"resolution" validate:"required,gt=0"`
}

// CubeConfig describes the data cube the jobs fill.
type CubeConfig struct {
	// Resolution is the cube's spatial resolution in degrees.
	Resolution float64 `mapstructure:"resolution" validate:"required,gt=0"`
	EPSG       int     `mapstructure:"epsg"       validate:"required,eq=4326"`
	StartDate  string  `mapstructure:"start_date" validate:"required,datetime=2006-01"`
	EndDate    string  `mapstructure:"end_date"   validate:"required,datetime=2006-01"`
	// FrequencyMonths is the temporal sampling frequency.
	FrequencyMonths int      `mapstructure:"frequency_months" validate:"required,min=1,max=24"`
	Bands           []string `mapstructure:"bands"            validate:"required,min=1"`
	VarName         string   `mapstructure:"varname"          validate:"required"`
	ChunkSize       int      `mapstructure:"chunk_size"       validate:"required,gt=0"`
	// Limit caps the number of jobs generated. Zero means no limit.
	Limit int `mapstructure:"limit" validate:"gte=0"`
}

// DispatchConfig contains worker pool settings.
type DispatchConfig struct {
	// Workers is the worker pool size. Zero means one worker per CPU.
	Workers int `mapstructure:"workers" validate:"gte=0"`
	// MaxRetries bounds attempts per job before it is skipped.
	MaxRetries int  `mapstructure:"max_retries" validate:"required,gt=0"`
	Debug      bool `mapstructure:"debug"`
}

// StorageConfig selects and parameterizes the array store backend.
type StorageConfig struct {
	// URI selects the backend: a local path or file:// URL for the
	// non-transactional store, or a postgres:// URL (credentials included)
	// for the transactional repository store.
	URI string `mapstructure:"uri" validate:"required"`
	// Repository names the transactional repository. Ignored by the
	// non-transactional backend.
	Repository string `mapstructure:"repository"`
	// Branch is the branch commits land on.
	Branch string `mapstructure:"branch" validate:"required"`
	// Initialize clears/recreates the target before processing.
	Initialize bool `mapstructure:"initialize"`
	// LogDir is where batch result logs are written.
	LogDir string `mapstructure:"log_dir" validate:"required"`
}
