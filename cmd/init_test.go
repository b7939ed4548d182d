package cmd

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/busygit/busygit/internal/config"
)

func pressEnter(t *testing.T, m tea.Model) tea.Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next
}

func typeText(t *testing.T, m tea.Model, s string) tea.Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next
}

func TestInitWizardWritesConfig(t *testing.T) {
	base := t.TempDir()
	watch := filepath.Join(base, "src")
	if err := os.MkdirAll(watch, 0755); err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(base, "solo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(base, "config.yaml")

	var m tea.Model = newInitModel(cfgPath, false)

	m = pressEnter(t, m) // welcome → watch paths
	m = typeText(t, m, watch)
	m = pressEnter(t, m) // add watch path
	m = pressEnter(t, m) // empty → explicit repos
	m = typeText(t, m, repo)
	m = pressEnter(t, m) // add repo
	m = pressEnter(t, m) // empty → untracked policy
	m = typeText(t, m, "n")
	m = pressEnter(t, m) // confirm → write

	final := m.(*initModel)
	if final.step != stepDone {
		t.Fatalf("step = %v, want done", final.step)
	}
	if final.err != nil {
		t.Fatalf("wizard error = %v", final.err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.WatchPaths) != 1 || cfg.WatchPaths[0] != watch {
		t.Errorf("WatchPaths = %v, want [%s]", cfg.WatchPaths, watch)
	}
	if len(cfg.Repos) != 1 || cfg.Repos[0] != repo {
		t.Errorf("Repos = %v, want [%s]", cfg.Repos, repo)
	}
	if cfg.CountUntracked {
		t.Error("CountUntracked should be false after answering n")
	}
}

func TestInitWizardFlagsNonRepoPath(t *testing.T) {
	plain := t.TempDir()

	m := newInitModel(filepath.Join(t.TempDir(), "config.yaml"), false)
	m.enterPathStep(stepRepos)

	var model tea.Model = m
	model = typeText(t, model, plain)
	model = pressEnter(t, model)

	final := model.(*initModel)
	if len(final.repos) != 1 {
		t.Fatalf("repos = %v, want one entry", final.repos)
	}
	if final.repos[0].note != "not a git repository" {
		t.Errorf("note = %q, want a non-repo warning", final.repos[0].note)
	}
}

func TestInitWizardRejectsEmptyConfig(t *testing.T) {
	var m tea.Model = newInitModel(filepath.Join(t.TempDir(), "config.yaml"), false)

	m = pressEnter(t, m) // welcome → watch paths
	m = pressEnter(t, m) // empty → repos
	m = pressEnter(t, m) // empty → untracked policy
	m = pressEnter(t, m) // default yes → confirm
	m = pressEnter(t, m) // confirm with nothing tracked

	final := m.(*initModel)
	if final.err == nil {
		t.Error("expected an error when no paths were collected")
	}
}

func TestInitWizardSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()

	var m tea.Model = newInitModel(filepath.Join(t.TempDir(), "config.yaml"), false)
	m = pressEnter(t, m) // welcome → watch paths
	m = typeText(t, m, dir)
	m = pressEnter(t, m)
	m = typeText(t, m, dir)
	m = pressEnter(t, m)

	final := m.(*initModel)
	if len(final.watchPaths) != 1 {
		t.Errorf("watchPaths = %v, want one entry", final.watchPaths)
	}
}
