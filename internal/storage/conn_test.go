package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		uri        string
		wantKind   Kind
		wantTarget string
		wantErr    bool
	}{
		{name: "file url", uri: "file:///tmp/cube", wantKind: KindLocal, wantTarget: "/tmp/cube"},
		{name: "bare path", uri: "./output/cube", wantKind: KindLocal, wantTarget: "./output/cube"},
		{name: "postgres url", uri: "postgres://user:pw@localhost:5432/db", wantKind: KindPostgres, wantTarget: "postgres://user:pw@localhost:5432/db"},
		{name: "postgresql url", uri: "postgresql://localhost/db", wantKind: KindPostgres, wantTarget: "postgresql://localhost/db"},
		{name: "surrounding whitespace", uri: "  file:///data  ", wantKind: KindLocal, wantTarget: "/data"},
		{name: "empty", uri: "", wantErr: true},
		{name: "blank", uri: "   ", wantErr: true},
		{name: "unknown scheme", uri: "s3://bucket/key", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			kind, target, err := ParseConnString(tc.uri)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantTarget, target)
		})
	}
}
