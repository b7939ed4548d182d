package tui

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// remoteWebURL resolves the repo's origin remote and converts it to a
// browser-openable HTTPS link.
func remoteWebURL(repoPath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", errors.New("no remote configured")
	}

	url := remoteHTTPS(string(out))
	if url == "" {
		return "", errors.New("remote has no web URL")
	}
	return url, nil
}

// remoteHTTPS converts a git remote URL (https, ssh, or scp-like) into
// an HTTPS link. Returns "" for URLs with no web equivalent, such as
// local filesystem remotes.
func remoteHTTPS(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return strings.TrimSuffix(raw, ".git")
	}

	// ssh://git@host[:port]/org/repo.git
	if strings.HasPrefix(raw, "ssh://") {
		rest := strings.TrimPrefix(raw, "ssh://")
		if at := strings.Index(rest, "@"); at != -1 {
			rest = rest[at+1:]
		}
		slash := strings.Index(rest, "/")
		if slash == -1 {
			return ""
		}
		host := rest[:slash]
		if colon := strings.Index(host, ":"); colon != -1 {
			host = host[:colon]
		}
		return "https://" + host + strings.TrimSuffix(rest[slash:], ".git")
	}

	// scp-like: git@host:org/repo.git
	if at := strings.Index(raw, "@"); at != -1 {
		rest := raw[at+1:]
		if colon := strings.Index(rest, ":"); colon != -1 && colon < len(rest)-1 {
			return "https://" + rest[:colon] + "/" + strings.TrimSuffix(rest[colon+1:], ".git")
		}
	}

	return ""
}

func openBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		_ = cmd.Run()
		return nil
	}
}
