package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/busygit/busygit/internal/config"
	"github.com/busygit/busygit/internal/engine"
	"github.com/busygit/busygit/internal/model"
	"github.com/busygit/busygit/internal/rank"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRefreshing
	PhaseFetching
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

type Toast struct {
	ID        int
	Message   string
	Level     ToastLevel
	CreatedAt time.Time
}

type Summary struct {
	Total      int
	Dirty      int
	Conflicted int
	Ahead      int
	Behind     int
	InSync     int
	Unknown    int
}

type Model struct {
	cfg *config.Config
	eng *engine.Engine
	log *logrus.Logger

	records []model.Record // last snapshot
	rows    []model.Record // ordered + filtered view
	cursor  int

	width, height int
	scrollOffset  int

	phase       Phase
	fetchTarget string
	sortMode    rank.Mode
	filterMode  bool
	filterInput textinput.Model
	filterText  string
	showHelp    bool

	summary     Summary
	toasts      []Toast
	nextToastID int

	keys      keyMap
	engCancel context.CancelFunc

	spinnerFrame int
	spinning     bool
}

func NewModel(cfg *config.Config, eng *engine.Engine, log *logrus.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "filter repos..."
	ti.CharLimit = 50

	return &Model{
		cfg:         cfg,
		eng:         eng,
		log:         log,
		keys:        newKeyMap(),
		filterInput: ti,
		sortMode:    rank.Alphabetical,
	}
}

func (m *Model) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.engCancel = cancel
	go m.eng.Run(ctx)

	m.phase = PhaseRefreshing
	m.eng.Refresh(model.RefreshRequest{Scope: model.ScopeFull, Reason: "startup"})

	m.spinning = true
	return tea.Batch(
		m.listenForEvents(),
		func() tea.Msg { return spinTickMsg{} },
	)
}

type engineEventMsg struct{ event engine.Event }
type spinTickMsg struct{}
type toastExpiredMsg struct{ id int }

func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eng.Events()
		if !ok {
			return nil
		}
		return engineEventMsg{event}
	}
}

// takeSnapshot pulls the current records from the engine and rebuilds
// the view.
func (m *Model) takeSnapshot() {
	m.records = m.eng.Snapshot()
	m.refresh()
}

func (m *Model) refresh() {
	m.computeSummary()
	m.buildRows()
}

func (m *Model) buildRows() {
	ordered := rank.Order(m.records, m.sortMode)

	if m.filterText != "" {
		var filtered []model.Record
		for _, r := range ordered {
			if containsIgnoreCase(r.DisplayName(), m.filterText) ||
				containsIgnoreCase(r.Path, m.filterText) {
				filtered = append(filtered, r)
			}
		}
		ordered = filtered
	}

	m.rows = ordered

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) computeSummary() {
	s := Summary{}
	for _, r := range m.records {
		s.Total++
		switch r.Local {
		case model.LocalDirty:
			s.Dirty++
		case model.LocalConflicted:
			s.Conflicted++
		case model.LocalUnknown:
			s.Unknown++
		}
		switch r.Remote.State {
		case model.RemoteAhead:
			s.Ahead++
		case model.RemoteBehind:
			s.Behind++
		case model.RemoteDiverged:
			s.Ahead++
			s.Behind++
		}
		if r.Local == model.LocalClean && r.Remote.InSync() {
			s.InSync++
		}
	}
	m.summary = s
}

func (m *Model) selectedRecord() *model.Record {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *Model) addToast(msg string, level ToastLevel) tea.Cmd {
	id := m.nextToastID
	m.nextToastID++
	m.toasts = append(m.toasts, Toast{
		ID:        id,
		Message:   msg,
		Level:     level,
		CreatedAt: time.Now(),
	})
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return toastExpiredMsg{id}
	})
}

func (m *Model) spinTick() tea.Cmd {
	m.spinning = true
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg {
		return spinTickMsg{}
	})
}

func (m *Model) ensureSpinTick() tea.Cmd {
	if m.spinning {
		return nil
	}
	return m.spinTick()
}

// unprobed reports whether any record is still waiting on its first probe.
func (m *Model) unprobed() bool {
	for _, r := range m.records {
		if r.LastProbed.IsZero() {
			return true
		}
	}
	return false
}

func (m *Model) openShell(path string) tea.Cmd {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}
	cmd := exec.Command(shell)
	cmd.Dir = path
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return nil })
}

func (m *Model) openEditor(path string) tea.Cmd {
	editor := m.cfg.EditorCommand
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vim"
	}
	cmd := exec.Command(editor, path)
	cmd.Dir = path
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return nil })
}

func (m *Model) openGitClient(path string) tea.Cmd {
	client := m.cfg.GitClientCommand
	if client == "" {
		client = "lazygit"
	}
	cmd := exec.Command(client)
	cmd.Dir = path
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return nil })
}

func (m *Model) openFinder(path string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("explorer", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
		_ = cmd.Run()
		return nil
	}
}

func (m *Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("pbcopy")
		case "windows":
			cmd = exec.Command("clip")
		default:
			if _, err := exec.LookPath("xclip"); err == nil {
				cmd = exec.Command("xclip", "-selection", "clipboard")
			} else {
				cmd = exec.Command("xsel", "--clipboard", "--input")
			}
		}
		cmd.Stdin = strings.NewReader(text)
		_ = cmd.Run()
		return nil
	}
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func Run(cfg *config.Config, eng *engine.Engine, log *logrus.Logger) error {
	m := NewModel(cfg, eng, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	if m.engCancel != nil {
		m.engCancel()
	}
	_ = eng.Close()

	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
