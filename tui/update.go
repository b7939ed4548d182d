package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/busygit/busygit/internal/model"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinTickMsg:
		m.spinnerFrame++
		if m.phase != PhaseIdle || m.unprobed() {
			return m, m.spinTick()
		}
		m.spinning = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case engineEventMsg:
		m.takeSnapshot()

		switch m.phase {
		case PhaseFetching:
			if m.fetchTarget == "" || m.fetchTarget == msg.event.Path {
				m.phase = PhaseIdle
				m.fetchTarget = ""
			}
		case PhaseRefreshing:
			if !m.unprobed() {
				m.phase = PhaseIdle
			}
		}

		return m, tea.Batch(m.listenForEvents(), m.ensureSpinTick())

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay — any key closes
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Filter mode
	if m.filterMode {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.filterMode = false
			m.filterInput.Reset()
			m.filterText = ""
			m.buildRows()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			m.filterMode = false
			m.filterText = m.filterInput.Value()
			m.buildRows()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.filterText = m.filterInput.Value()
			m.buildRows()
			return m, cmd
		}
	}

	// Normal mode
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Navigation
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case key.Matches(msg, m.keys.HalfDown):
		m.cursor += m.visibleRows() / 2
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.HalfUp):
		m.cursor -= m.visibleRows() / 2
		if m.cursor < 0 {
			m.cursor = 0
		}

	// Filter
	case key.Matches(msg, m.keys.Filter):
		m.filterMode = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		m.filterText = ""
		m.filterInput.Reset()
		m.buildRows()

	// Refresh actions
	case key.Matches(msg, m.keys.Refresh):
		if rec := m.selectedRecord(); rec != nil {
			m.eng.Refresh(model.RefreshRequest{
				Scope:  model.ScopeSubset,
				Paths:  []string{rec.Path},
				Reason: "manual refresh",
			})
			return m, tea.Batch(
				m.addToast("Refreshing "+rec.DisplayName(), ToastInfo),
				m.ensureSpinTick(),
			)
		}

	case key.Matches(msg, m.keys.RefreshAll):
		m.phase = PhaseRefreshing
		m.eng.Refresh(model.RefreshRequest{
			Scope:  model.ScopeFull,
			Reason: "manual full refresh",
		})
		return m, tea.Batch(
			m.addToast("Rescanning all repos", ToastInfo),
			m.ensureSpinTick(),
		)

	case key.Matches(msg, m.keys.Fetch):
		if rec := m.selectedRecord(); rec != nil {
			m.phase = PhaseFetching
			m.fetchTarget = rec.Path
			m.eng.Refresh(model.RefreshRequest{
				Scope:   model.ScopeSubset,
				Paths:   []string{rec.Path},
				Network: true,
				Reason:  "manual fetch",
			})
			return m, tea.Batch(
				m.addToast("Fetching "+rec.DisplayName(), ToastInfo),
				m.ensureSpinTick(),
			)
		}

	case key.Matches(msg, m.keys.FetchAll):
		m.phase = PhaseFetching
		m.fetchTarget = ""
		m.eng.Refresh(model.RefreshRequest{
			Scope:   model.ScopeFull,
			Network: true,
			Reason:  "manual fetch all",
		})
		return m, tea.Batch(
			m.addToast("Fetching all repos", ToastInfo),
			m.ensureSpinTick(),
		)

	// Launchers
	case key.Matches(msg, m.keys.Editor):
		if rec := m.selectedRecord(); rec != nil {
			return m, m.openEditor(rec.Path)
		}

	case key.Matches(msg, m.keys.GitClient):
		if rec := m.selectedRecord(); rec != nil {
			return m, m.openGitClient(rec.Path)
		}

	case key.Matches(msg, m.keys.Open):
		if rec := m.selectedRecord(); rec != nil {
			return m, m.openFinder(rec.Path)
		}

	case key.Matches(msg, m.keys.Browse):
		if rec := m.selectedRecord(); rec != nil {
			url, err := remoteWebURL(rec.Path)
			if err != nil {
				return m, m.addToast(err.Error(), ToastError)
			}
			return m, tea.Batch(
				openBrowser(url),
				m.addToast("Opening "+url, ToastInfo),
			)
		}

	case key.Matches(msg, m.keys.Shell):
		if rec := m.selectedRecord(); rec != nil {
			return m, m.openShell(rec.Path)
		}

	case key.Matches(msg, m.keys.CopyPath):
		if rec := m.selectedRecord(); rec != nil {
			return m, tea.Batch(
				m.copyToClipboard(rec.Path),
				m.addToast("Copied path", ToastInfo),
			)
		}

	// View
	case key.Matches(msg, m.keys.Sort):
		m.sortMode = m.sortMode.Next()
		m.buildRows()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m *Model) visibleRows() int {
	// header(2) + table header(1) + footer(2) = 5
	avail := m.height - 5
	if avail < 1 {
		avail = 1
	}
	return avail
}
