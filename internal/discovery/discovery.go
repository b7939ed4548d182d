package discovery

import (
	"context"
	"path/filepath"
)

// Repo is a discovered git work-tree root.
type Repo struct {
	Path       string // canonical absolute path
	IsWorktree bool   // true if this is a linked worktree
	MainRepo   string // if IsWorktree, path to the main repo
}

// PathError attributes a discovery failure to a single configured path.
// One bad path never aborts the rest of the scan.
type PathError struct {
	Path string
	Err  error
}

func (e PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

type Result struct {
	Repos  []Repo
	Errors []PathError
}

type Discoverer interface {
	Discover(ctx context.Context) (Result, error)
}

// canonical resolves a path to its unique identity: absolute with
// symlinks resolved, so two spellings of the same work-tree collapse.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
