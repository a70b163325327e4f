package status

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Zero(t, bar.Elapsed())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_ViewStates(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		elapsed time.Duration
		want    string
	}{
		{"ready", StateReady, "", 0, "Ready"},
		{"ready with message", StateReady, "3 collections", 0, "3 collections"},
		{"thinking", StateThinking, "", 0, "Thinking..."},
		{"answered", StateAnswered, "", 1500 * time.Millisecond, "Total Elapsed Time: 1.50 seconds"},
		{"error", StateError, "llm down", 0, "Error: llm down"},
		{"error without message", StateError, "", 0, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetElapsed(tt.elapsed)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_ViewShowsHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)

	view := bar.View()

	assert.Contains(t, view, "enter: ask")
	assert.Contains(t, view, "esc: quit")
	assert.Len(t, bar.Bindings(), 4)
}

func TestStatusBar_ViewFitsOneLine(t *testing.T) {
	for _, width := range []int{80, 120, 160} {
		bar := NewBar(nil, nil)
		bar.SetWidth(width)

		view := bar.View()

		assert.Equal(t, 1, lipgloss.Height(view), "width %d", width)
		assert.Equal(t, width, lipgloss.Width(view), "width %d", width)
	}
}

func TestStatusBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
	assert.Equal(t, 10, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetElapsed(time.Second)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.Elapsed())
}
