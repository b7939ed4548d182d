package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/busygit/busygit/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up busygit config interactively",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

type initStep int

const (
	stepWelcome initStep = iota
	stepOverwrite // only if config exists
	stepWatchPaths
	stepRepos
	stepUntracked
	stepConfirm
	stepDone
)

var (
	styleInitTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("73"))
	styleInitSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	styleInitWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	styleInitDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// pathEntry is one collected path plus an optional validation warning.
type pathEntry struct {
	raw  string
	note string
}

type initModel struct {
	step  initStep
	input textinput.Model

	watchPaths []pathEntry
	repos      []pathEntry

	countUntracked bool

	configPath   string
	configExists bool
	err          error
	cancelled    bool
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	_, statErr := os.Stat(configPath)
	m := newInitModel(configPath, statErr == nil)

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return err
	}

	if final, ok := result.(*initModel); ok && final.err != nil {
		return final.err
	}

	return nil
}

func newInitModel(configPath string, configExists bool) *initModel {
	ti := textinput.New()
	ti.Placeholder = "~/src"
	ti.CharLimit = 256
	ti.Width = 50

	return &initModel{
		step:           stepWelcome,
		input:          ti,
		countUntracked: true,
		configPath:     configPath,
		configExists:   configExists,
	}
}

func (m *initModel) Init() tea.Cmd {
	return nil
}

func (m *initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	key := keyMsg.String()

	if key == "ctrl+c" {
		m.cancelled = true
		return m, tea.Quit
	}

	switch m.step {
	case stepWelcome:
		switch key {
		case "enter":
			if m.configExists {
				m.step = stepOverwrite
				return m, nil
			}
			return m.enterPathStep(stepWatchPaths)
		case "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		}

	case stepOverwrite:
		if key == "y" || key == "Y" {
			return m.enterPathStep(stepWatchPaths)
		}
		m.cancelled = true
		return m, tea.Quit

	case stepWatchPaths:
		return m.updatePathStep(keyMsg, key, &m.watchPaths, stepRepos, true)

	case stepRepos:
		return m.updatePathStep(keyMsg, key, &m.repos, stepUntracked, false)

	case stepUntracked:
		switch key {
		case "y", "Y", "enter":
			m.countUntracked = true
			m.step = stepConfirm
		case "n", "N":
			m.countUntracked = false
			m.step = stepConfirm
		case "esc":
			return m.enterPathStep(stepRepos)
		}

	case stepConfirm:
		switch key {
		case "enter":
			m.err = m.writeConfig()
			m.step = stepDone
			return m, tea.Quit
		case "esc":
			m.step = stepUntracked
		}

	case stepDone:
		return m, tea.Quit
	}

	return m, nil
}

func (m *initModel) enterPathStep(step initStep) (tea.Model, tea.Cmd) {
	m.step = step
	m.input.Reset()
	if step == stepWatchPaths {
		m.input.Placeholder = "~/src"
	} else {
		m.input.Placeholder = "~/dotfiles"
	}
	m.input.Focus()
	return m, textinput.Blink
}

// updatePathStep collects paths into target until an empty Enter moves
// on to next. Explicit repo entries are checked for a .git marker;
// watch paths only need to exist.
func (m *initModel) updatePathStep(msg tea.KeyMsg, key string, target *[]pathEntry, next initStep, isWatch bool) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		val := strings.TrimSpace(m.input.Value())
		if val == "" {
			return m.enterPathStep(next)
		}

		if slices.ContainsFunc(*target, func(e pathEntry) bool { return e.raw == val }) {
			m.input.Reset()
			return m, nil
		}

		entry := pathEntry{raw: val}
		expanded := config.ExpandHome(val)
		if _, err := os.Stat(expanded); err != nil {
			entry.note = "does not exist yet"
		} else if !isWatch {
			if _, err := os.Stat(filepath.Join(expanded, ".git")); err != nil {
				entry.note = "not a git repository"
			}
		}

		*target = append(*target, entry)
		m.input.Reset()
		return m, nil

	case "esc":
		m.cancelled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *initModel) writeConfig() error {
	if len(m.watchPaths) == 0 && len(m.repos) == 0 {
		return fmt.Errorf("nothing to track: add a watch path or a repo")
	}

	cfg := config.NewConfig()
	for _, e := range m.watchPaths {
		cfg.WatchPaths = append(cfg.WatchPaths, e.raw)
	}
	for _, e := range m.repos {
		cfg.Repos = append(cfg.Repos, e.raw)
	}
	cfg.CountUntracked = m.countUntracked

	return config.Save(cfg, m.configPath)
}

func (m *initModel) View() string {
	var b strings.Builder

	switch m.step {
	case stepWelcome:
		b.WriteString(styleInitTitle.Render("Welcome to busygit!"))
		b.WriteString("\n\n")
		b.WriteString("Config will be saved to ")
		b.WriteString(styleInitDim.Render(m.configPath))
		b.WriteString("\n\n")
		b.WriteString(styleInitDim.Render("Press Enter to continue, Esc to cancel"))
		b.WriteString("\n")

	case stepOverwrite:
		b.WriteString(styleInitWarn.Render("Config already exists"))
		b.WriteString(" at ")
		b.WriteString(styleInitDim.Render(m.configPath))
		b.WriteString("\n\n")
		b.WriteString("Overwrite? ")
		b.WriteString(styleInitDim.Render("[y/N]"))
		b.WriteString("\n")

	case stepWatchPaths:
		b.WriteString(styleInitTitle.Render("Watch paths"))
		b.WriteString("  ")
		b.WriteString(styleInitDim.Render("directories scanned for git repos"))
		b.WriteString("\n\n")
		m.renderEntries(&b, m.watchPaths)
		b.WriteString("Enter a directory (empty to continue):\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")

	case stepRepos:
		b.WriteString(styleInitTitle.Render("Explicit repositories"))
		b.WriteString("  ")
		b.WriteString(styleInitDim.Render("tracked individually, outside any watch path"))
		b.WriteString("\n\n")
		m.renderEntries(&b, m.repos)
		b.WriteString("Enter a repository path (empty to continue):\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")

	case stepUntracked:
		b.WriteString(styleInitTitle.Render("Untracked files"))
		b.WriteString("\n\n")
		b.WriteString("Should a repo with only untracked files count as dirty?\n\n")
		b.WriteString(styleInitDim.Render("[Y/n]"))
		b.WriteString("\n")

	case stepConfirm:
		b.WriteString(styleInitTitle.Render("Ready to write config"))
		b.WriteString("\n\n")
		if len(m.watchPaths) > 0 {
			b.WriteString("Watch paths:\n")
			for _, e := range m.watchPaths {
				b.WriteString("  - " + e.raw + "\n")
			}
		}
		if len(m.repos) > 0 {
			b.WriteString("Repositories:\n")
			for _, e := range m.repos {
				b.WriteString("  - " + e.raw + "\n")
			}
		}
		if len(m.watchPaths) == 0 && len(m.repos) == 0 {
			b.WriteString(styleInitWarn.Render("Nothing to track yet; go back and add a path"))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Untracked files count as dirty: %v\n", m.countUntracked)
		b.WriteString("\n")
		b.WriteString(styleInitDim.Render("[Enter] Write config  [Esc] Go back"))
		b.WriteString("\n")

	case stepDone:
		if m.err != nil {
			b.WriteString(styleInitWarn.Render("Error: " + m.err.Error()))
			b.WriteString("\n")
		} else {
			b.WriteString(styleInitSuccess.Render("Config saved to " + m.configPath))
			b.WriteString("\n\n")
			b.WriteString("Run ")
			b.WriteString(styleInitTitle.Render("busygit"))
			b.WriteString(" to start monitoring your repos!\n")
		}
	}

	return b.String()
}

func (m *initModel) renderEntries(b *strings.Builder, entries []pathEntry) {
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		b.WriteString(styleInitSuccess.Render("  + " + e.raw))
		if e.note != "" {
			b.WriteString("  ")
			b.WriteString(styleInitWarn.Render("(" + e.note + ")"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
