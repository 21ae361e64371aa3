package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sparkgeo/serverless-datacube-demo/internal/config"
	"github.com/sparkgeo/serverless-datacube-demo/internal/cube"
	"github.com/sparkgeo/serverless-datacube-demo/internal/dispatch"
	"github.com/sparkgeo/serverless-datacube-demo/internal/geo"
	"github.com/sparkgeo/serverless-datacube-demo/internal/grid"
	"github.com/sparkgeo/serverless-datacube-demo/internal/joblog"
	"github.com/sparkgeo/serverless-datacube-demo/internal/mosaic"
	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/localfs"
	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/logger"
	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/postgres"
	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// externalGrid holds the optional external grid-indexing capability. Builds
// that link an implementation assign it here; the external strategy probes
// it at construction time and fails cleanly when it is absent.
var externalGrid grid.ExternalGrid

// app bundles the loaded configuration and logger for a single run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// initializeApp loads configuration and sets up application components.
func initializeApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"log_level", cfg.Log.Level,
		"grid_generator", cfg.Grid.Generator,
		"storage_uri_present", cfg.Storage.URI != "")

	return &app{cfg: cfg, logger: appLogger}, nil
}

// run executes the pipeline end to end: normalize the AOI, generate the
// grid, align the mosaic, build and dispatch the tile jobs, commit the
// successful outcomes, and save the batch result log.
func (a *app) run(ctx context.Context) error {
	ctx = logger.WithContext(ctx, a.logger)
	cfg := a.cfg

	aoi, err := geo.Normalize(a.aoiSource())
	if err != nil {
		return err
	}

	targetFrame, err := geo.ParseFrame(cfg.Grid.TargetCRS)
	if err != nil {
		return err
	}

	spec := grid.Spec{
		CellSize:    cfg.Grid.CellSize,
		Overlap:     cfg.Grid.Overlap,
		TargetFrame: targetFrame,
		Resolution:  cfg.Grid.Resolution,
		IDField:     "grid_id",
	}

	generator, err := a.buildGenerator(spec)
	if err != nil {
		return err
	}

	cells, err := generator.Generate(ctx, aoi)
	if err != nil {
		return err
	}
	a.logger.Info("generated grid cells",
		"count", cells.Len(),
		"strategy", cfg.Grid.Generator)

	mosaicGrid, err := mosaic.Align(cells, targetFrame, float64(cfg.Grid.Resolution))
	if err != nil {
		return err
	}
	a.logger.Info("aligned mosaic grid",
		"origin_x", mosaicGrid.OriginX,
		"origin_y", mosaicGrid.OriginY,
		"width", mosaicGrid.Width,
		"height", mosaicGrid.Height,
		"resolution", mosaicGrid.Resolution)

	jobCfg, err := a.buildJobConfig(cells)
	if err != nil {
		return err
	}

	tileJobs := jobCfg.GenerateJobs(cfg.Cube.Limit)
	a.logger.Info("generated jobs",
		"num_tiles", jobCfg.NumTiles(),
		"num_jobs", len(tileJobs))

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Error("failed to close store", "error", err)
		}
	}()

	if cfg.Storage.Initialize {
		if err := store.Initialize(ctx); err != nil {
			return err
		}
	}

	array, release, err := store.Acquire(ctx)
	if err != nil {
		return err
	}
	// Release exactly once, on every exit path.
	released := false
	releaseOnce := func() {
		if released {
			return
		}
		released = true
		if err := release(); err != nil {
			a.logger.Error("failed to release array handle", "error", err)
		}
	}
	defer releaseOnce()

	if err := jobCfg.CreateDatasetSchema(ctx, array); err != nil {
		return err
	}

	jobs := make([]dispatch.Job, len(tileJobs))
	for i, j := range tileJobs {
		jobs[i] = j
	}

	dispatcher := dispatch.New(dispatch.Config{
		Workers:    cfg.Dispatch.Workers,
		MaxRetries: cfg.Dispatch.MaxRetries,
		Debug:      cfg.Dispatch.Debug,
	}, a.logger)

	result, err := dispatcher.Dispatch(ctx, jobs, array)
	if err != nil {
		return err
	}
	a.logger.Info("dispatch settled",
		"outcomes", len(result.Outcomes),
		"skipped", len(result.Skipped))

	message := fmt.Sprintf("Processed %d chunks", len(jobs))
	if err := store.Commit(ctx, message, result.Outcomes); err != nil {
		return err
	}
	releaseOnce()

	logPath := filepath.Join(cfg.Storage.LogDir,
		fmt.Sprintf("%d-datacube.csv", time.Now().Unix()))
	if err := joblog.Save(logPath, result); err != nil {
		return err
	}
	a.logger.Info("batch complete", "result_log", logPath)

	return nil
}

// aoiSource selects the geometry source from configuration: a geometry
// file when present, the bbox otherwise.
func (a *app) aoiSource() geo.Source {
	if a.cfg.AOI.GeometryFile != "" {
		return geo.GeoJSONSource{Path: a.cfg.AOI.GeometryFile}
	}
	bbox := a.cfg.AOI.BBox
	return geo.BoundSource{
		MinLon: bbox[0], MinLat: bbox[1],
		MaxLon: bbox[2], MaxLat: bbox[3],
	}
}

// buildGenerator constructs the configured grid strategy.
func (a *app) buildGenerator(spec grid.Spec) (grid.Generator, error) {
	switch a.cfg.Grid.Generator {
	case "external":
		return grid.NewExternalGenerator(externalGrid, spec)
	case "square":
		return grid.NewSquareGenerator(spec), nil
	default:
		return nil, fmt.Errorf("unknown grid generator %q", a.cfg.Grid.Generator)
	}
}

// buildJobConfig derives the cube job configuration. The cube bounds come
// from the generated cells' combined lon/lat extent.
func (a *app) buildJobConfig(cells *grid.CellSet) (*cube.JobConfig, error) {
	cfg := a.cfg.Cube

	start, err := time.Parse("2006-01", cfg.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01", cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	b := cells.Bound()
	return &cube.JobConfig{
		Resolution: cfg.Resolution,
		EPSG:       cfg.EPSG,
		Bounds: cube.Bounds{
			MinLon: b.Min[0], MinLat: b.Min[1],
			MaxLon: b.Max[0], MaxLat: b.Max[1],
		},
		StartDate:       start,
		EndDate:         end,
		FrequencyMonths: cfg.FrequencyMonths,
		Bands:           cfg.Bands,
		VarName:         cfg.VarName,
		ChunkSize:       cfg.ChunkSize,
	}, nil
}

// openStore selects the backend from the storage connection string.
func (a *app) openStore(ctx context.Context) (storage.Store, func() error, error) {
	kind, target, err := storage.ParseConnString(a.cfg.Storage.URI)
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case storage.KindLocal:
		return localfs.New(target), func() error { return nil }, nil
	case storage.KindPostgres:
		store, err := postgres.Open(ctx, target, a.cfg.Storage.Repository, a.cfg.Storage.Branch)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage kind %q", kind)
	}
}
