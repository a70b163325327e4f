package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
)

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	// numDocuments is passed to every Ask; 0 uses the configured default.
	numDocuments int

	// collections are shown in the header once loaded.
	collections []string

	// busy is true while an answer is being generated.
	busy bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports, numDocuments int) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		transcript:   transcript.New(s),
		statusbar:    status.NewBar(s, km),
		numDocuments: numDocuments,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sercha-rag"),
		a.input.Init(),
		a.loadCollections(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AskRequested:
		return a, a.ask(msg.Question)

	case messages.AnswerReceived:
		a.busy = false
		a.transcript.Complete(msg.Question, msg.Answer, msg.Err)
		if msg.Err != nil {
			a.err = msg.Err
			a.statusbar.SetState(status.StateError)
			a.statusbar.SetMessage(msg.Err.Error())
		} else if msg.Answer != nil {
			a.err = nil
			a.statusbar.SetState(status.StateAnswered)
			a.statusbar.SetElapsed(msg.Answer.Elapsed)
		}
		return a, a.input.Focus()

	case messages.CollectionsLoaded:
		if msg.Err != nil {
			a.statusbar.SetMessage("Collections unavailable: " + msg.Err.Error())
			return a, nil
		}
		a.collections = a.collections[:0]
		for _, c := range msg.Collections {
			a.collections = append(a.collections, fmt.Sprintf("%s (%d)", c.Name, c.Count))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.transcript, cmd = a.transcript.Update(msg)
	return a, cmd
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.ScrollUp):
		a.transcript.ScrollUp()
		return a, nil
	case keymap.Matches(k, a.keymap.ScrollDown):
		a.transcript.ScrollDown()
		return a, nil
	case keymap.Matches(k, a.keymap.Clear):
		a.transcript.Clear()
		a.statusbar.Clear()
		return a, nil
	case keymap.Matches(k, a.keymap.Sources):
		a.transcript.ToggleSources()
		return a, nil
	case keymap.Matches(k, a.keymap.Submit):
		return a.submit()
	}

	if a.busy {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed question. exit and quit leave the chat.
func (a *App) submit() (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	question := strings.TrimSpace(a.input.Value())
	switch strings.ToLower(question) {
	case "":
		return a, nil
	case "exit", "quit":
		return a, tea.Quit
	}

	a.input.Reset()
	return a, func() tea.Msg {
		return messages.AskRequested{Question: question}
	}
}

// ask marks the question pending and answers it off the UI goroutine.
func (a *App) ask(question string) tea.Cmd {
	a.busy = true
	a.input.Blur()
	a.transcript.Begin(question)
	a.statusbar.SetState(status.StateThinking)

	ctx := a.ctx
	answers := a.ports.Answer
	k := a.numDocuments
	return func() tea.Msg {
		answer, err := answers.Ask(ctx, question, k)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// loadCollections lists the collections shown in the header.
func (a *App) loadCollections() tea.Cmd {
	if a.ports.Collections == nil {
		return nil
	}
	ctx := a.ctx
	collections := a.ports.Collections
	return func() tea.Msg {
		list, err := collections.ListCollections(ctx)
		return messages.CollectionsLoaded{Collections: list, Err: err}
	}
}

// View implements tea.Model.
// It renders the chat screen as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("sercha-rag")
	if len(a.collections) > 0 {
		header += "  " + a.styles.Muted.Render(strings.Join(a.collections, " · "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.transcript.View(),
		"",
		a.input.View(),
		a.statusbar.View(),
	)
}

// Run starts the chat and blocks until the user quits or ctx is done.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if err != nil && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// Header, blank lines, bordered input and status bar.
	a.transcript.SetDimensions(width, height-8)
	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)
}

// Question returns the text currently typed.
func (a *App) Question() string {
	return a.input.Value()
}

// Turns returns the chat history.
func (a *App) Turns() []transcript.Turn {
	return a.transcript.Turns()
}

// Busy reports whether an answer is being generated.
func (a *App) Busy() bool {
	return a.busy
}

// Collections returns the collection labels shown in the header.
func (a *App) Collections() []string {
	return a.collections
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}
