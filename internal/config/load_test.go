package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datacube.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
aoi:
  bbox: [-123.3, 49.1, -122.9, 49.4]
cube:
  start_date: "2020-01"
  end_date: "2020-12"
storage:
  uri: ./output/cube
`

func TestLoadFromAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "square", cfg.Grid.Generator)
	assert.Equal(t, 512, cfg.Grid.CellSize)
	assert.True(t, cfg.Grid.Overlap)
	assert.Equal(t, "EPSG:32610", cfg.Grid.TargetCRS)
	assert.Equal(t, 16, cfg.Grid.Resolution)
	assert.Equal(t, 4326, cfg.Cube.EPSG)
	assert.Equal(t, 1.0/3600.0, cfg.Cube.Resolution)
	assert.Equal(t, 1200, cfg.Cube.ChunkSize)
	assert.Equal(t, 5, cfg.Dispatch.MaxRetries)
	assert.Equal(t, "main", cfg.Storage.Branch)
	assert.Equal(t, "./logs", cfg.Storage.LogDir)

	assert.Equal(t, []float64{-123.3, 49.1, -122.9, 49.4}, cfg.AOI.BBox)
	assert.Equal(t, "2020-01", cfg.Cube.StartDate)
	assert.Equal(t, "./output/cube", cfg.Storage.URI)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(writeConfigFile(t, `
log:
  level: debug
aoi:
  geometry_file: ./aoi.geojson
grid:
  generator: external
  cell_size: 9
cube:
  start_date: "2021-06"
  end_date: "2022-06"
  frequency_months: 6
dispatch:
  workers: 8
storage:
  uri: postgres://user:pw@localhost/db
  repository: demo
  branch: experiments
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "./aoi.geojson", cfg.AOI.GeometryFile)
	assert.Equal(t, "external", cfg.Grid.Generator)
	assert.Equal(t, 9, cfg.Grid.CellSize)
	assert.Equal(t, 6, cfg.Cube.FrequencyMonths)
	assert.Equal(t, 8, cfg.Dispatch.Workers)
	assert.Equal(t, "demo", cfg.Storage.Repository)
	assert.Equal(t, "experiments", cfg.Storage.Branch)
}

func TestLoadFromValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing storage uri",
			content: `
aoi:
  bbox: [0, 0, 1, 1]
cube:
  start_date: "2020-01"
  end_date: "2020-12"
`,
		},
		{
			name: "bad date format",
			content: `
aoi:
  bbox: [0, 0, 1, 1]
cube:
  start_date: "01/2020"
  end_date: "2020-12"
storage:
  uri: ./output/cube
`,
		},
		{
			name: "missing aoi",
			content: `
cube:
  start_date: "2020-01"
  end_date: "2020-12"
storage:
  uri: ./output/cube
`,
		},
		{
			name: "short bbox",
			content: `
aoi:
  bbox: [0, 0, 1]
cube:
  start_date: "2020-01"
  end_date: "2020-12"
storage:
  uri: ./output/cube
`,
		},
		{
			name: "unknown generator",
			content: `
aoi:
  bbox: [0, 0, 1, 1]
grid:
  generator: hexagons
cube:
  start_date: "2020-01"
  end_date: "2020-12"
storage:
  uri: ./output/cube
`,
		},
		{
			name: "unsupported cube epsg",
			content: `
aoi:
  bbox: [0, 0, 1, 1]
cube:
  epsg: 3857
  start_date: "2020-01"
  end_date: "2020-12"
storage:
  uri: ./output/cube
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFrom(writeConfigFile(t, tc.content))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverride(t *testing.T) {
	t.Setenv("DATACUBE_LOG_LEVEL", "warn")
	t.Setenv("DATACUBE_STORAGE_BRANCH", "hotfix")

	cfg, err := LoadFrom(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "hotfix", cfg.Storage.Branch)
}
