package cube

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sparkgeo/serverless-datacube-demo/internal/dispatch"
	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/logger"
	"github.com/sparkgeo/serverless-datacube-demo/internal/storage"
)

// Tile is the spatial reference of one chunk-aligned work unit.
type Tile struct {
	Col, Row      int
	Width, Height int
	TimeSteps     int
	Bands         int
}

// Processor computes the pixel content of one tile for one time step. It
// returns the chunk's bytes, or nil when the tile has nothing to write
// (e.g. fully masked). A returned error is a transient fault and triggers
// a dispatcher retry.
type Processor func(ctx context.Context, tile Tile, timeStep int) ([]byte, error)

// FillProcessor returns a Processor producing constant-filled chunks. It
// stands in where real pixel computation is plugged in from outside the
// pipeline core.
func FillProcessor(value byte) Processor {
	return func(_ context.Context, tile Tile, _ int) ([]byte, error) {
		data := make([]byte, tile.Width*tile.Height*tile.Bands)
		for i := range data {
			data[i] = value
		}
		return data, nil
	}
}

// TileJob writes one spatial tile of the cube across all time steps. It
// implements dispatch.Job.
type TileJob struct {
	id        uuid.UUID
	cfg       *JobConfig
	tile      Tile
	processor Processor
}

var _ dispatch.Job = (*TileJob)(nil)

func newTileJob(cfg *JobConfig, tile Tile, processor Processor) *TileJob {
	return &TileJob{
		id:        uuid.New(),
		cfg:       cfg,
		tile:      tile,
		processor: processor,
	}
}

// ID implements dispatch.Job.
func (j *TileJob) ID() uuid.UUID {
	return j.id
}

// Label implements dispatch.Job.
func (j *TileJob) Label() string {
	return fmt.Sprintf("%s/x%03d_y%03d", j.cfg.VarName, j.tile.Col, j.tile.Row)
}

// Tile returns the job's spatial reference.
func (j *TileJob) Tile() Tile {
	return j.tile
}

// Process implements dispatch.Job. Against a transactional backend it opens
// its own sub-session and carries it out through the outcome for the commit
// merge; against a non-transactional backend it writes straight through the
// shared handle.
func (j *TileJob) Process(ctx context.Context, array storage.Array, debug bool) (*storage.Outcome, error) {
	log := logger.FromContext(ctx).With("job_id", j.id, "label", j.Label())

	target := array
	var sess storage.Session
	if forkable, ok := array.(storage.Forkable); ok {
		var err error
		sess, target, err = forkable.Fork(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open job session: %w", err)
		}
	}

	wrote := false
	for t := 0; t < j.tile.TimeSteps; t++ {
		data, err := j.processor(ctx, j.tile, t)
		if err != nil {
			return nil, fmt.Errorf("tile processing faulted: %w", err)
		}
		if data == nil {
			continue
		}

		key := fmt.Sprintf("%s/t%03d/x%03d_y%03d", j.cfg.VarName, t, j.tile.Col, j.tile.Row)
		if err := target.WriteChunk(ctx, key, data); err != nil {
			return nil, fmt.Errorf("failed to write chunk %q: %w", key, err)
		}
		wrote = true
	}

	if !wrote {
		// Empty tiles return nothing; there is no session worth merging.
		if debug {
			log.Debug("tile produced no data")
		}
		return nil, nil
	}

	if debug {
		log.Debug("tile processed", "time_steps", j.tile.TimeSteps)
	}
	return &storage.Outcome{JobID: j.id, Label: j.Label(), Session: sess}, nil
}
