package transcript

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func testAnswer(text string) *domain.Answer {
	return &domain.Answer{
		Text: text,
		Context: []domain.QueryResult{{
			Collection: "Astronomy",
			Metadata:   domain.RecordMetadata{Source: "sky.pdf", PageNumber: 7},
			Score:      0.25,
		}},
		Elapsed: 2 * time.Second,
	}
}

func TestNew_Empty(t *testing.T) {
	tr := New(nil)

	require.NotNil(t, tr)
	assert.Empty(t, tr.Turns())
	assert.Contains(t, tr.View(), "Ask a question")
	assert.Nil(t, tr.Init())
}

func TestTranscript_BeginComplete(t *testing.T) {
	tr := New(nil)
	tr.SetDimensions(80, 20)

	tr.Begin("Which planet is largest?")
	require.Len(t, tr.Turns(), 1)
	assert.True(t, tr.Turns()[0].Pending)
	assert.Contains(t, tr.View(), "Thinking...")

	tr.Complete("Which planet is largest?", testAnswer("Jupiter."), nil)
	require.Len(t, tr.Turns(), 1)
	turn := tr.Turns()[0]
	assert.False(t, turn.Pending)
	assert.Equal(t, "Jupiter.", turn.Answer)
	assert.Equal(t, 2*time.Second, turn.Elapsed)

	view := tr.View()
	assert.Contains(t, view, "> Which planet is largest?")
	assert.Contains(t, view, "Jupiter.")
	assert.Contains(t, view, "2.00 seconds")
}

func TestTranscript_CompleteError(t *testing.T) {
	tr := New(nil)
	tr.SetDimensions(120, 20)

	tr.Begin("q")
	tr.Complete("q", nil, errors.New("llm unavailable"))

	assert.Contains(t, tr.View(), "An error occurred during processing: llm unavailable")
}

func TestTranscript_CompleteWithoutPendingAppends(t *testing.T) {
	tr := New(nil)

	tr.Complete("orphan", testAnswer("a"), nil)

	require.Len(t, tr.Turns(), 1)
	assert.Equal(t, "orphan", tr.Turns()[0].Question)
}

func TestTranscript_ToggleSources(t *testing.T) {
	tr := New(nil)
	tr.SetDimensions(100, 20)
	tr.Complete("q", testAnswer("a"), nil)

	assert.NotContains(t, tr.View(), "sky.pdf")

	tr.ToggleSources()
	assert.True(t, tr.ShowSources())
	assert.Contains(t, tr.View(), "[1] Astronomy - sky.pdf p.7 (0.2500)")
}

func TestTranscript_Clear(t *testing.T) {
	tr := New(nil)
	tr.Complete("q", testAnswer("a"), nil)

	tr.Clear()

	assert.Empty(t, tr.Turns())
}

func TestTranscript_ScrollKeepsNewestVisible(t *testing.T) {
	tr := New(nil)
	tr.SetDimensions(40, 4)
	for i := 0; i < 10; i++ {
		tr.Complete("question", testAnswer("answer"), nil)
	}
	assert.True(t, tr.AtBottom())

	tr.ScrollUp()
	assert.False(t, tr.AtBottom())

	for i := 0; i < 20; i++ {
		tr.ScrollDown()
	}
	assert.True(t, tr.AtBottom())
}
