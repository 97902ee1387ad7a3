// Package tui implements the Bubble Tea terminal user interface. It is a
// pure consumer of engine state: every mutation flows through the engine's
// Submit and the editor buffer it owns locally.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coderefine/coderefine/internal/engine"
	"github.com/coderefine/coderefine/internal/history"
	"github.com/coderefine/coderefine/internal/model"
)

// resultPane selects what the right pane shows.
type resultPane int

const (
	paneReport resultPane = iota
	paneSource
	paneLog
)

func (p resultPane) String() string {
	switch p {
	case paneReport:
		return "report"
	case paneSource:
		return "annotated"
	case paneLog:
		return "activity"
	default:
		return "unknown"
	}
}

type keyMap struct {
	Submit     key.Binding
	Regenerate key.Binding
	Focus      key.Binding
	Pane       key.Binding
	Mode       key.Binding
	Language   key.Binding
	Apply      key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze")),
	Regenerate: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "regenerate")),
	Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
	Pane:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "next pane")),
	Mode:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "persona")),
	Language:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "language")),
	Apply:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "apply optimized")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
}

// engineMsg signals that the engine posted a transition.
type engineMsg struct{}

// fileReloadMsg carries fresh file contents from the watcher.
type fileReloadMsg struct {
	content string
}

// Options configures the interactive session.
type Options struct {
	Engine   *engine.Engine
	Recorder *history.Recorder
	Store    *history.Store // nil disables persistence
	Code     string
	FilePath string
	Watch    bool
	Language string
	Mode     model.Mode
	Provider string
}

// Model is the top-level Bubble Tea model for coderefine.
type Model struct {
	eng      *engine.Engine
	recorder *history.Recorder
	store    *history.Store

	editor  textarea.Model
	results viewport.Model
	spin    spinner.Model

	width  int
	height int

	editorFocused bool
	pane          resultPane

	languages []string
	langIndex int
	modes     []model.Mode
	modeIndex int
	provider  string

	filePath string
	watcher  *fileWatcher

	snap     engine.Snapshot
	recorded *model.ReviewResult // last result already written to history
}

// New creates the TUI model. The engine must already be constructed; the
// model never creates its own so tests can inject fakes.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste or type code to analyze..."
	ta.SetValue(opts.Code)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	languages := model.Languages()
	langIndex := 0
	for i, l := range languages {
		if l == opts.Language {
			langIndex = i
			break
		}
	}

	modes := model.Modes()
	modeIndex := 0
	for i, md := range modes {
		if md == opts.Mode {
			modeIndex = i
			break
		}
	}

	m := Model{
		eng:           opts.Engine,
		recorder:      opts.Recorder,
		store:         opts.Store,
		editor:        ta,
		spin:          sp,
		editorFocused: true,
		languages:     languages,
		langIndex:     langIndex,
		modes:         modes,
		modeIndex:     modeIndex,
		provider:      opts.Provider,
		filePath:      opts.FilePath,
		snap:          opts.Engine.Snapshot(),
	}

	if opts.Watch && opts.FilePath != "" {
		if w, err := newFileWatcher(opts.FilePath); err == nil {
			m.watcher = w
		} else {
			m.eng.Log("Watch disabled: "+err.Error(), engine.LevelWarn)
		}
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEngine(m.eng), textarea.Blink, m.spin.Tick}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait())
	}
	return tea.Batch(cmds...)
}

func waitForEngine(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-eng.Notify()
		return engineMsg{}
	}
}

func (m Model) language() string {
	return m.languages[m.langIndex]
}

func (m Model) mode() model.Mode {
	return m.modes[m.modeIndex]
}

func (m *Model) submit(alternative bool) {
	m.eng.Submit(model.Request{
		Code:        m.editor.Value(),
		Language:    m.language(),
		Provider:    m.provider,
		Mode:        m.mode(),
		Alternative: alternative,
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshResults()
		return m, nil

	case engineMsg:
		m.snap = m.eng.Snapshot()
		m.recordIfNew()
		m.refreshResults()
		return m, waitForEngine(m.eng)

	case fileReloadMsg:
		m.editor.SetValue(msg.content)
		m.eng.Log("Reloaded "+m.filePath, engine.LevelInfo)
		return m, m.watcher.wait()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.watcher != nil {
				m.watcher.close()
			}
			return m, tea.Quit

		case key.Matches(msg, keys.Submit):
			m.submit(false)
			return m, nil

		case key.Matches(msg, keys.Regenerate):
			m.submit(true)
			return m, nil

		case key.Matches(msg, keys.Focus):
			m.editorFocused = !m.editorFocused
			if m.editorFocused {
				m.editor.Focus()
			} else {
				m.editor.Blur()
			}
			return m, nil

		case key.Matches(msg, keys.Pane):
			m.pane = (m.pane + 1) % 3
			m.refreshResults()
			return m, nil

		case key.Matches(msg, keys.Mode):
			m.modeIndex = (m.modeIndex + 1) % len(m.modes)
			return m, nil

		case key.Matches(msg, keys.Language):
			m.langIndex = (m.langIndex + 1) % len(m.languages)
			return m, nil

		case key.Matches(msg, keys.Apply):
			if m.snap.LastResult != nil && m.snap.LastResult.OptimizedCode != "" {
				m.editor.SetValue(m.snap.LastResult.OptimizedCode)
				m.eng.Log("Applied optimized code to buffer", engine.LevelInfo)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.editorFocused {
		m.editor, cmd = m.editor.Update(msg)
	} else {
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// recordIfNew appends a freshly completed result to history exactly once.
func (m *Model) recordIfNew() {
	if m.recorder == nil {
		return
	}
	if m.snap.State != engine.StateSucceeded || m.snap.LastResult == nil || m.snap.LastResult == m.recorded {
		return
	}

	item := m.recorder.Record(m.snap.Request.Language, m.snap.Request.Code, m.snap.LastResult)
	m.recorded = m.snap.LastResult

	if m.store != nil {
		if err := m.store.Save(context.Background(), item); err != nil {
			m.eng.Log("Could not persist review: "+err.Error(), engine.LevelWarn)
		}
	}
}

func (m *Model) layout() {
	editorWidth := m.width/2 - 2
	paneHeight := m.height - 4 // title + status + borders
	if editorWidth < 20 {
		editorWidth = 20
	}
	if paneHeight < 3 {
		paneHeight = 3
	}

	m.editor.SetWidth(editorWidth - 2)
	m.editor.SetHeight(paneHeight - 2)

	resultsWidth := m.width - editorWidth - 3
	if resultsWidth < 20 {
		resultsWidth = 20
	}
	m.results = viewport.New(resultsWidth-2, paneHeight-2)
}

// bufferLineCount is the current editor line count, used for annotation.
func (m Model) bufferLineCount() int {
	v := m.editor.Value()
	if v == "" {
		return 0
	}
	return strings.Count(v, "\n") + 1
}

func (m Model) bridgeLabel() string {
	if !m.snap.Probed {
		return "probing"
	}
	if m.snap.BridgeOnline {
		return "hybrid"
	}
	return "cloud-only"
}

func (m Model) stateLabel() string {
	if m.snap.State == engine.StateRequesting {
		return m.spin.View() + "analyzing"
	}
	return m.snap.State.String()
}

func (m Model) statusLine() string {
	return fmt.Sprintf(" %s  %s  %s  %s", m.stateLabel(), m.bridgeLabel(), m.mode(), m.language())
}

// Run starts the interactive session.
func Run(opts Options) error {
	m := New(opts)
	opts.Engine.ProbeBridge()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
