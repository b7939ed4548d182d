package discovery

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/busygit/busygit/internal/config"
)

// Walker discovers repositories under the configured watch paths and
// validates the explicitly configured repositories.
type Walker struct {
	cfg *config.Config
}

func NewWalker(cfg *config.Config) *Walker {
	return &Walker{cfg: cfg}
}

func (w *Walker) Discover(ctx context.Context) (Result, error) {
	var (
		mu   sync.Mutex
		seen = make(map[string]Repo)
		errs []PathError
	)

	add := func(r Repo) {
		r.Path = canonical(r.Path)
		if r.MainRepo != "" {
			r.MainRepo = canonical(r.MainRepo)
		}
		if _, exists := seen[r.Path]; !exists {
			seen[r.Path] = r
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, watchPath := range w.cfg.WatchPaths {
		watchPath := watchPath
		g.Go(func() error {
			found, err := w.scanRoot(gctx, watchPath, w.cfg.MaxDepth)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, PathError{Path: watchPath, Err: err})
			}
			for _, r := range found {
				add(r)
			}
			return nil
		})
	}

	for _, repoPath := range w.cfg.Repos {
		repoPath := repoPath
		g.Go(func() error {
			repo, err := w.validateRepo(repoPath)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, PathError{Path: repoPath, Err: err})
				return nil
			}
			add(*repo)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	repos := make([]Repo, 0, len(seen))
	for _, r := range seen {
		repos = append(repos, r)
	}
	return Result{Repos: repos, Errors: errs}, nil
}

// validateRepo checks a single explicitly configured path. Unlike scan
// paths, a configured repo that isn't one is an error worth surfacing.
func (w *Walker) validateRepo(path string) (*Repo, error) {
	path = config.ExpandHome(path)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	repo, err := detectGitDir(path)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, errors.New("not a git repository")
	}
	return repo, nil
}

func (w *Walker) scanRoot(ctx context.Context, root string, maxDepth int) ([]Repo, error) {
	root = config.ExpandHome(root)
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var repos []Repo

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't read
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !d.IsDir() {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		depth := 0
		if relPath != "." {
			depth = strings.Count(relPath, string(filepath.Separator)) + 1
		}

		if depth > maxDepth {
			return fs.SkipDir
		}

		if d.Name() == ".git" {
			return fs.SkipDir
		}

		if path != root {
			if !w.cfg.ShowHidden && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if w.cfg.ShouldIgnore(path) {
				return fs.SkipDir
			}
		}

		repo, err := detectGitDir(path)
		if err != nil {
			return nil // Continue on errors
		}

		if repo != nil {
			repos = append(repos, *repo)
			if !repo.IsWorktree {
				repos = append(repos, linkedWorktrees(path)...)
			}
			return fs.SkipDir // Don't descend into git repos
		}

		return nil
	})

	return repos, err
}
