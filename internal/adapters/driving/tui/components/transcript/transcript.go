// Package transcript provides the scrolling question and answer history.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Turn is one question with its answer or error.
type Turn struct {
	Question string
	Answer   string
	Context  []domain.QueryResult
	Elapsed  time.Duration
	Err      error

	// Pending is true while the answer is being generated.
	Pending bool
}

// Transcript renders turns inside a scrollable viewport.
type Transcript struct {
	styles      *styles.Styles
	viewport    viewport.Model
	turns       []Turn
	showSources bool
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		styles:   s,
		viewport: viewport.New(80, 16),
	}
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update forwards mouse and scroll messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	if len(t.turns) == 0 {
		return t.styles.Muted.Render("Ask a question about your documents.")
	}
	return t.viewport.View()
}

// Begin appends a pending turn for question.
func (t *Transcript) Begin(question string) {
	t.turns = append(t.turns, Turn{Question: question, Pending: true})
	t.refresh()
}

// Complete fills in the latest pending turn for question.
// A completion with no matching pending turn is appended.
func (t *Transcript) Complete(question string, answer *domain.Answer, err error) {
	turn := Turn{Question: question, Err: err}
	if answer != nil {
		turn.Answer = answer.Text
		turn.Context = answer.Context
		turn.Elapsed = answer.Elapsed
	}

	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Pending && t.turns[i].Question == question {
			t.turns[i] = turn
			t.refresh()
			return
		}
	}
	t.turns = append(t.turns, turn)
	t.refresh()
}

// Turns returns the recorded turns.
func (t *Transcript) Turns() []Turn {
	return t.turns
}

// Clear removes every turn.
func (t *Transcript) Clear() {
	t.turns = nil
	t.refresh()
}

// ToggleSources shows or hides the retrieved passages under each answer.
func (t *Transcript) ToggleSources() {
	t.showSources = !t.showSources
	t.refresh()
}

// ShowSources reports whether retrieved passages are shown.
func (t *Transcript) ShowSources() bool {
	return t.showSources
}

// ScrollUp scrolls up half a page.
func (t *Transcript) ScrollUp() {
	t.viewport.SetYOffset(t.viewport.YOffset - t.viewport.Height/2)
}

// ScrollDown scrolls down half a page.
func (t *Transcript) ScrollDown() {
	t.viewport.SetYOffset(t.viewport.YOffset + t.viewport.Height/2)
}

// AtBottom reports whether the newest turn is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// SetDimensions sets the viewport size.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 1 {
		height = 1
	}
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// refresh re-renders every turn and keeps the newest one in view.
func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
	t.viewport.GotoBottom()
}

func (t *Transcript) render() string {
	width := t.viewport.Width
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	blocks := make([]string, 0, len(t.turns))
	for _, turn := range t.turns {
		var b strings.Builder
		b.WriteString(t.styles.Question.Render(wrap.Render("> " + turn.Question)))
		b.WriteString("\n")

		switch {
		case turn.Pending:
			b.WriteString(t.styles.Muted.Render("Thinking..."))
		case turn.Err != nil:
			b.WriteString(t.styles.Error.Render(
				wrap.Render(fmt.Sprintf("An error occurred during processing: %v", turn.Err))))
		default:
			b.WriteString(t.styles.Answer.Render(wrap.Render(turn.Answer)))
			if t.showSources {
				for i, r := range turn.Context {
					b.WriteString("\n")
					b.WriteString(t.styles.Citation.Render(fmt.Sprintf("[%d] %s - %s p.%d (%.4f)",
						i+1, r.Collection, r.Metadata.Source, r.Metadata.PageNumber, r.Score)))
				}
			}
			b.WriteString("\n")
			b.WriteString(t.styles.Muted.Render(fmt.Sprintf("%.2f seconds", turn.Elapsed.Seconds())))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
