package discovery

import (
	"os"
	"path/filepath"
	"strings"
)

// IsRepoRoot reports whether path currently resolves to a git work-tree
// root. Used to confirm disappearance before a tracked repo is dropped.
func IsRepoRoot(path string) bool {
	repo, err := detectGitDir(path)
	return err == nil && repo != nil
}

// detectGitDir reports whether path is a git work-tree root. Returns
// (nil, nil) when it is an ordinary directory.
func detectGitDir(path string) (*Repo, error) {
	gitPath := filepath.Join(path, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	repo := &Repo{Path: path}

	if info.IsDir() {
		return repo, nil
	}

	// .git is a file - this is a linked worktree
	repo.IsWorktree = true

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return nil, err
	}

	// Parse "gitdir: /path/to/main/.git/worktrees/name"
	line := strings.TrimSpace(string(content))
	if strings.HasPrefix(line, "gitdir:") {
		gitdir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
		if idx := strings.Index(gitdir, "/.git/worktrees/"); idx != -1 {
			repo.MainRepo = gitdir[:idx]
		}
	}

	return repo, nil
}

// linkedWorktrees finds worktrees registered in .git/worktrees/. Each
// entry contains a "gitdir" file pointing to the worktree's working
// directory.
func linkedWorktrees(repoPath string) []Repo {
	wtDir := filepath.Join(repoPath, ".git", "worktrees")
	entries, err := os.ReadDir(wtDir)
	if err != nil {
		return nil
	}

	var repos []Repo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		gitdirFile := filepath.Join(wtDir, e.Name(), "gitdir")
		content, err := os.ReadFile(gitdirFile)
		if err != nil {
			continue
		}
		// gitdir points at the worktree's .git file; the working
		// directory is its parent
		wtPath := filepath.Dir(strings.TrimSpace(string(content)))
		if info, err := os.Stat(wtPath); err != nil || !info.IsDir() {
			continue
		}
		repos = append(repos, Repo{
			Path:       wtPath,
			IsWorktree: true,
			MainRepo:   repoPath,
		})
	}
	return repos
}
