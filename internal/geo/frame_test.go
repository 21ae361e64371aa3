package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		label   string
		want    Frame
		wantErr bool
	}{
		{name: "epsg prefix", label: "EPSG:32610", want: Frame{EPSG: 32610}},
		{name: "lowercase prefix", label: "epsg:4326", want: Frame{EPSG: 4326}},
		{name: "bare code", label: "4326", want: Frame{EPSG: 4326}},
		{name: "whitespace", label: "  EPSG:3857 ", want: Frame{EPSG: 3857}},
		{name: "empty is undeclared", label: "", want: Frame{}},
		{name: "garbage", label: "EPSG:abc", wantErr: true},
		{name: "negative code", label: "-5", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFrame(tc.label)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFrame)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFrameCanonical(t *testing.T) {
	t.Parallel()

	assert.True(t, Canonical.IsCanonical())
	assert.False(t, Frame{}.IsCanonical(), "the zero frame is undeclared, not canonical")
	assert.True(t, Frame{}.IsZero())
	assert.Equal(t, Canonical, Frame{}.OrCanonical())
	assert.Equal(t, Frame{EPSG: 32610}, Frame{EPSG: 32610}.OrCanonical())
	assert.Equal(t, "EPSG:4326", Canonical.String())
	assert.Equal(t, "", Frame{}.String())
}

func TestNewProjectionIdentity(t *testing.T) {
	t.Parallel()

	proj, err := NewProjection(Canonical, Frame{})
	require.NoError(t, err)

	p := proj(orb.Point{-123.25, 49.26})
	assert.Equal(t, -123.25, p[0])
	assert.Equal(t, 49.26, p[1])
}
