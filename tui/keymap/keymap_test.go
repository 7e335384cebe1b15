package keymap

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/grovetools/watchers/config"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApplyOverrides(t *testing.T) {
	km := Default()
	ApplyOverrides(&km, config.KeybindingConfig{
		"toggle": {"x"},
		"play":   {"P", "ctrl+p"},
		"bogus":  {"z"},
		"quit":   {},
	})

	assert.Equal(t, []string{"x"}, km.Toggle.Keys())
	assert.Equal(t, "enable/disable", km.Toggle.Help().Desc)
	assert.Equal(t, "x", km.Toggle.Help().Key)
	assert.Equal(t, []string{"P", "ctrl+p"}, km.Play.Keys())
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys(), "empty override is ignored")
}

func TestApplyOverridesNonPointer(t *testing.T) {
	km := Default()
	ApplyOverrides(km, config.KeybindingConfig{"toggle": {"x"}})
	assert.Equal(t, []string{" ", "t"}, km.Toggle.Keys())
}

func TestCamelToSnake(t *testing.T) {
	tests := map[string]string{
		"Toggle":   "toggle",
		"ViewLogs": "view_logs",
		"Up":       "up",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelToSnake(in))
	}
}

func TestSections(t *testing.T) {
	km := Default()
	km.Wizard.SetEnabled(false)

	sections := km.Sections()
	assert.Len(t, sections, 3)
	assert.Equal(t, SectionActions, sections[1].Name)
	assert.Len(t, sections[1].FilterEnabled(), 6)
	assert.Len(t, km.FullHelp(), 3)
	assert.True(t, NewSection("Empty").IsEmpty())
}

func TestSequenceState(t *testing.T) {
	km := Default()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSequenceState()
	s.now = func() time.Time { return now }

	res, _ := s.Process(runes("d"), km.Sequences()...)
	assert.Equal(t, SequencePending, res)
	assert.True(t, s.IsPending())

	res, idx := s.Process(runes("d"), km.Sequences()...)
	assert.Equal(t, SequenceMatch, res)
	assert.Equal(t, 1, idx)
	s.Clear()

	s.Process(runes("g"), km.Sequences()...)
	now = now.Add(2 * time.Second)
	res, _ = s.Process(runes("g"), km.Sequences()...)
	assert.Equal(t, SequencePending, res, "timeout drops the first g")
	assert.Equal(t, "g", s.Buffer())

	s.Clear()
	res, _ = s.Process(runes("x"), km.Sequences()...)
	assert.Equal(t, SequenceNone, res)
}
