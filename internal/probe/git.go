package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/busygit/busygit/internal/model"
)

// GitProber reads repository status by shelling out to git. Probes never
// mutate repository state; only FetchProbe touches the network, and only
// to update remote-tracking refs.
type GitProber struct {
	countUntracked bool
	probeTimeout   time.Duration
	fetchTimeout   time.Duration
}

type Option func(*GitProber)

func WithUntrackedAsDirty(v bool) Option {
	return func(p *GitProber) { p.countUntracked = v }
}

func WithTimeouts(probe, fetch time.Duration) Option {
	return func(p *GitProber) {
		if probe > 0 {
			p.probeTimeout = probe
		}
		if fetch > 0 {
			p.fetchTimeout = fetch
		}
	}
}

func NewGitProber(opts ...Option) *GitProber {
	p := &GitProber{
		countUntracked: true,
		probeTimeout:   5 * time.Second,
		fetchTimeout:   30 * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *GitProber) Probe(ctx context.Context, repoPath string) (*Outcome, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	output, err := runGit(cmdCtx, repoPath, "status", "--porcelain=v2", "--branch")
	if err != nil {
		if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("status probe timed out after %s", p.probeTimeout)
		}
		return nil, err
	}

	return p.outcomeFromPorcelain(repoPath, output), nil
}

func (p *GitProber) FetchProbe(ctx context.Context, repoPath string) (*Outcome, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	_, fetchErr := runGit(fetchCtx, repoPath, "fetch", "--quiet")
	if fetchErr != nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		fetchErr = fmt.Errorf("fetch timed out after %s", p.fetchTimeout)
	}

	// Read status with the parent ctx so cancellation propagates
	outcome, err := p.Probe(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	if fetchErr != nil && outcome.Remote.State != model.RemoteNoUpstream {
		outcome.Remote = model.RemoteStatus{State: model.RemoteUnreachable}
		outcome.Note = "fetch: " + fetchErr.Error()
	}

	return outcome, nil
}

func (p *GitProber) outcomeFromPorcelain(repoPath, output string) *Outcome {
	ps := parsePorcelainV2(output)

	o := &Outcome{
		Branch:   ps.branch,
		Detached: ps.detached,
	}

	// Conflicted beats Dirty: unmerged paths or an in-progress operation
	switch {
	case ps.unmerged > 0 || hasConflictMarkers(repoPath):
		o.Local = model.LocalConflicted
	case ps.staged > 0 || ps.modified > 0:
		o.Local = model.LocalDirty
	case ps.untracked > 0 && p.countUntracked:
		o.Local = model.LocalDirty
	default:
		o.Local = model.LocalClean
	}

	switch {
	case ps.upstream == "":
		o.Remote = model.RemoteStatus{State: model.RemoteNoUpstream}
	case !ps.hasAB:
		// Upstream configured but the tracking ref is gone (e.g. the
		// remote branch was deleted). Nothing to compare against.
		o.Remote = model.RemoteStatus{State: model.RemoteUnknown}
		o.Note = "upstream " + ps.upstream + " has no tracking ref"
	case ps.ahead == 0 && ps.behind == 0:
		o.Remote = model.RemoteStatus{State: model.RemoteUpToDate}
	case ps.ahead > 0 && ps.behind > 0:
		o.Remote = model.RemoteStatus{State: model.RemoteDiverged, Ahead: ps.ahead, Behind: ps.behind}
	case ps.ahead > 0:
		o.Remote = model.RemoteStatus{State: model.RemoteAhead, Ahead: ps.ahead}
	default:
		o.Remote = model.RemoteStatus{State: model.RemoteBehind, Behind: ps.behind}
	}

	return o
}

func runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return stdout.String(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// hasConflictMarkers checks the git dir for in-progress merge, rebase,
// cherry-pick, revert, or bisect state.
func hasConflictMarkers(repoPath string) bool {
	gitDir := resolveGitDir(repoPath)

	markers := []string{
		"MERGE_HEAD",
		"CHERRY_PICK_HEAD",
		"REVERT_HEAD",
		"BISECT_LOG",
		"rebase-merge",
		"rebase-apply",
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(gitDir, m)); err == nil {
			return true
		}
	}
	return false
}

// resolveGitDir follows the ".git file" indirection used by worktrees.
func resolveGitDir(repoPath string) string {
	gitDir := filepath.Join(repoPath, ".git")

	info, err := os.Stat(gitDir)
	if err != nil || info.IsDir() {
		return gitDir
	}

	content, err := os.ReadFile(gitDir)
	if err != nil {
		return gitDir
	}
	line := strings.TrimSpace(string(content))
	if strings.HasPrefix(line, "gitdir:") {
		return strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
	}
	return gitDir
}
