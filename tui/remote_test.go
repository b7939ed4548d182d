package tui

import (
	"os/exec"
	"testing"
)

func TestRemoteHTTPS(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"https passthrough", "https://github.com/org/repo.git", "https://github.com/org/repo"},
		{"https without suffix", "https://github.com/org/repo", "https://github.com/org/repo"},
		{"http passthrough", "http://git.example.com/org/repo.git", "http://git.example.com/org/repo"},
		{"scp-like", "git@github.com:org/repo.git", "https://github.com/org/repo"},
		{"scp-like nested group", "git@gitlab.com:group/sub/repo.git", "https://gitlab.com/group/sub/repo"},
		{"ssh scheme", "ssh://git@github.com/org/repo.git", "https://github.com/org/repo"},
		{"ssh with port", "ssh://git@git.example.com:2222/org/repo.git", "https://git.example.com/org/repo"},
		{"trailing newline", "git@github.com:org/repo.git\n", "https://github.com/org/repo"},
		{"local path remote", "/srv/git/repo.git", ""},
		{"relative path remote", "../other-repo", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := remoteHTTPS(tt.raw); got != tt.expected {
				t.Errorf("remoteHTTPS(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestRemoteWebURL(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	runGit := func(t *testing.T, dir string, args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	t.Run("no remote", func(t *testing.T) {
		dir := t.TempDir()
		runGit(t, dir, "init")

		if _, err := remoteWebURL(dir); err == nil {
			t.Error("expected an error for a repo without a remote")
		}
	})

	t.Run("web remote", func(t *testing.T) {
		dir := t.TempDir()
		runGit(t, dir, "init")
		runGit(t, dir, "remote", "add", "origin", "git@github.com:org/repo.git")

		url, err := remoteWebURL(dir)
		if err != nil {
			t.Fatalf("remoteWebURL() error = %v", err)
		}
		if url != "https://github.com/org/repo" {
			t.Errorf("url = %q", url)
		}
	})

	t.Run("filesystem remote", func(t *testing.T) {
		dir := t.TempDir()
		runGit(t, dir, "init")
		runGit(t, dir, "remote", "add", "origin", "/srv/git/repo.git")

		if _, err := remoteWebURL(dir); err == nil {
			t.Error("expected an error for a remote with no web URL")
		}
	})
}
