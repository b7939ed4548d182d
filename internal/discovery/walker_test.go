package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/busygit/busygit/internal/config"
)

func makeRepo(t *testing.T, base string, name string) string {
	t.Helper()
	path := filepath.Join(base, name)
	mustMkdirAll(t, filepath.Join(path, ".git"))
	return canonical(path)
}

func findRepo(result Result, path string) bool {
	for _, r := range result.Repos {
		if r.Path == path {
			return true
		}
	}
	return false
}

func TestDiscoverWatchPaths(t *testing.T) {
	base := t.TempDir()
	repoA := makeRepo(t, base, "alpha")
	repoB := makeRepo(t, base, "beta")
	mustMkdirAll(t, filepath.Join(base, "not-a-repo"))

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base}

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(result.Repos) != 2 {
		t.Fatalf("found %d repos, want 2: %+v", len(result.Repos), result.Repos)
	}
	if !findRepo(result, repoA) || !findRepo(result, repoB) {
		t.Errorf("missing expected repos in %+v", result.Repos)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestDiscoverWatchPathIsItselfARepo(t *testing.T) {
	base := t.TempDir()
	mustMkdirAll(t, filepath.Join(base, ".git"))

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base}

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(result.Repos) != 1 {
		t.Fatalf("found %d repos, want 1", len(result.Repos))
	}
	if result.Repos[0].Path != canonical(base) {
		t.Errorf("Path = %q, want %q", result.Repos[0].Path, canonical(base))
	}
}

func TestDiscoverRespectsMaxDepth(t *testing.T) {
	base := t.TempDir()
	deep := filepath.Join(base, "a", "b")
	mustMkdirAll(t, deep)
	makeRepo(t, deep, "toodeep")
	shallow := makeRepo(t, base, "shallow")

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base}
	cfg.MaxDepth = 1

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(result.Repos) != 1 || !findRepo(result, shallow) {
		t.Errorf("want only %q, got %+v", shallow, result.Repos)
	}
}

func TestDiscoverSkipsHiddenUnlessConfigured(t *testing.T) {
	base := t.TempDir()
	makeRepo(t, base, ".hidden-repo")
	visible := makeRepo(t, base, "visible")

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base}

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(result.Repos) != 1 || !findRepo(result, visible) {
		t.Errorf("hidden repo should be skipped, got %+v", result.Repos)
	}

	cfg.ShowHidden = true
	result, err = NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(result.Repos) != 2 {
		t.Errorf("with show_hidden, want 2 repos, got %+v", result.Repos)
	}
}

func TestDiscoverExplicitRepos(t *testing.T) {
	base := t.TempDir()
	repo := makeRepo(t, base, "explicit")
	notRepo := filepath.Join(base, "plain")
	mustMkdirAll(t, notRepo)

	cfg := config.NewConfig()
	cfg.Repos = []string{repo, notRepo, filepath.Join(base, "missing")}

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(result.Repos) != 1 || !findRepo(result, repo) {
		t.Errorf("want only %q tracked, got %+v", repo, result.Repos)
	}
	if len(result.Errors) != 2 {
		t.Errorf("want 2 per-path errors, got %v", result.Errors)
	}
}

func TestDiscoverMissingWatchPathIsPerPathError(t *testing.T) {
	base := t.TempDir()
	repo := makeRepo(t, base, "ok")

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base, filepath.Join(base, "does-not-exist")}

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if !findRepo(result, repo) {
		t.Error("valid watch path should still be scanned")
	}
	if len(result.Errors) != 1 {
		t.Errorf("want 1 error for the missing path, got %v", result.Errors)
	}
}

func TestDiscoverDeduplicatesAcrossConfig(t *testing.T) {
	base := t.TempDir()
	repo := makeRepo(t, base, "shared")

	// A symlinked spelling of the same work-tree root
	link := filepath.Join(base, "shared-link")
	if err := os.Symlink(repo, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base}
	cfg.Repos = []string{repo, link}

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	count := 0
	for _, r := range result.Repos {
		if r.Path == repo {
			count++
		}
	}
	if count != 1 {
		t.Errorf("repo tracked %d times, want 1: %+v", count, result.Repos)
	}
}

func TestDiscoverDoesNotDescendIntoRepos(t *testing.T) {
	base := t.TempDir()
	outer := makeRepo(t, base, "outer")
	mustMkdirAll(t, filepath.Join(outer, "nested", ".git"))

	cfg := config.NewConfig()
	cfg.WatchPaths = []string{base}
	cfg.MaxDepth = 5

	result, err := NewWalker(cfg).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(result.Repos) != 1 || !findRepo(result, outer) {
		t.Errorf("nested repo inside a repo should not be tracked: %+v", result.Repos)
	}
}
