package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkgeo/serverless-datacube-demo/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug", level: "debug"},
		{name: "info", level: "info"},
		{name: "warn", level: "warn"},
		{name: "error", level: "error"},
		{name: "case insensitive", level: "INFO"},
		{name: "invalid falls back to info", level: "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Setup(config.LogConfig{Level: tc.level})
			require.NoError(t, err)
			assert.NotNil(t, logger)
			assert.Same(t, logger, slog.Default())
		})
	}
}

func TestFromContext(t *testing.T) {
	stored := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), stored)

	assert.Same(t, stored, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
