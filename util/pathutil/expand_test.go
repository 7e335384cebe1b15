package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("WATCHERS_TEST_DIR", "/srv/watchers")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{":memory:", ":memory:"},
		{"~", home},
		{"~/data/watchers.db", filepath.Join(home, "data", "watchers.db")},
		{"$WATCHERS_TEST_DIR/watchers.db", "/srv/watchers/watchers.db"},
		{"${WATCHERS_TEST_DIR}/run/watchersd.sock", "/srv/watchers/run/watchersd.sock"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	rel, err := Expand("watchers.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rel))
}
