package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config file and from environment
// variables. Environment variables use the DATACUBE_ prefix with underscores
// separating nested keys (e.g. DATACUBE_STORAGE_URI) and take precedence over
// values from the config file. Returns a populated Config or an error if
// loading or validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the config file at the given path
// instead of searching the default locations. An empty path means "search
// the defaults" (./datacube.yaml, then no file at all).
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	} else {
		v.SetConfigName("datacube")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine; env vars and defaults apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("DATACUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values mirroring the documented defaults of
// the pipeline (cell size 512, overlap on, EPSG:32610 working frame, 16 m
// mosaic resolution, five attempts per job).
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("grid.generator", "square")
	v.SetDefault("grid.cell_size", 512)
	v.SetDefault("grid.overlap", true)
	v.SetDefault("grid.target_crs", "EPSG:32610")
	v.SetDefault("grid.resolution", 16)

	v.SetDefault("cube.resolution", 1.0/3600.0)
	v.SetDefault("cube.epsg", 4326)
	v.SetDefault("cube.frequency_months", 1)
	v.SetDefault("cube.bands", []string{"red", "green", "blue"})
	v.SetDefault("cube.varname", "rgb_median")
	v.SetDefault("cube.chunk_size", 1200)

	v.SetDefault("dispatch.workers", 0)
	v.SetDefault("dispatch.max_retries", 5)

	v.SetDefault("storage.branch", "main")
	v.SetDefault("storage.initialize", true)
	v.SetDefault("storage.log_dir", "./logs")
}
