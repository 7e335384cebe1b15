package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Disk full", "disk-full"},
		{"separators", "cpu_load.high/prod", "cpu-load-high-prod"},
		{"punctuation", "Errors > 5%!", "errors-5"},
		{"repeated dashes", "a  --  b", "a-b"},
		{"trim", "  -edge-  ", "edge"},
		{"unicode dropped", "Überwachung", "berwachung"},
		{"empty", "", ""},
		{"only symbols", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestSlugLength(t *testing.T) {
	long := strings.Repeat("watcher ", 20)
	got := Slug(long)
	assert.LessOrEqual(t, len(got), maxSlugLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestTempPattern(t *testing.T) {
	assert.Equal(t, "watcher-disk-full-*.json", TempPattern("Disk full"))
	assert.Equal(t, "watcher-*.json", TempPattern("!!!"))
}
