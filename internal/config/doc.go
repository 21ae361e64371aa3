// Package config defines the typed configuration for the datacube pipeline
// and loads it from config files and environment variables.
package config
