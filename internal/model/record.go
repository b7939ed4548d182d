package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// LocalStatus describes the working tree relative to HEAD.
type LocalStatus int

const (
	LocalUnknown LocalStatus = iota // not yet probed, or probe failed
	LocalClean
	LocalDirty
	LocalConflicted // unmerged paths or an in-progress merge/rebase
)

func (s LocalStatus) String() string {
	switch s {
	case LocalClean:
		return "clean"
	case LocalDirty:
		return "dirty"
	case LocalConflicted:
		return "conflict"
	default:
		return "unknown"
	}
}

// RemoteState describes the branch relative to its configured upstream.
type RemoteState int

const (
	RemoteUnknown RemoteState = iota
	RemoteUpToDate
	RemoteAhead
	RemoteBehind
	RemoteDiverged
	RemoteNoUpstream  // no upstream configured for the current branch
	RemoteUnreachable // fetch failed: network, auth, or timeout
)

// RemoteStatus carries the state plus ahead/behind commit counts.
// Counts are meaningful only for Ahead, Behind, and Diverged.
type RemoteStatus struct {
	State  RemoteState
	Ahead  int
	Behind int
}

func (r RemoteStatus) String() string {
	switch r.State {
	case RemoteUpToDate:
		return "synced"
	case RemoteAhead:
		return fmt.Sprintf("ahead %d", r.Ahead)
	case RemoteBehind:
		return fmt.Sprintf("behind %d", r.Behind)
	case RemoteDiverged:
		return fmt.Sprintf("diverged ↑%d ↓%d", r.Ahead, r.Behind)
	case RemoteNoUpstream:
		return "no remote"
	case RemoteUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// InSync reports whether the branch matches its upstream exactly.
func (r RemoteStatus) InSync() bool {
	return r.State == RemoteUpToDate
}

// Record is the cached status of one repository. The identity is the
// canonical absolute path of the work-tree root. Records are owned by
// the engine; consumers only ever see copies.
type Record struct {
	Path string // canonical work-tree root, unique key

	Branch     string // empty when detached
	Detached   bool
	Local      LocalStatus
	Remote     RemoteStatus
	IsWorktree bool   // linked worktree of another repo
	MainRepo   string // if IsWorktree, path of the main work-tree

	LastProbed time.Time // zero until the first probe completes
	LastErr    string    // human-readable, set when a probe fails
}

func (r *Record) DisplayName() string {
	return filepath.Base(r.Path)
}

// NeedsAttention reports whether the record should surface near the top
// of an attention-sorted view.
func (r *Record) NeedsAttention() bool {
	if r.Local == LocalConflicted || r.Local == LocalDirty {
		return true
	}
	switch r.Remote.State {
	case RemoteAhead, RemoteBehind, RemoteDiverged:
		return true
	}
	return r.LastErr != ""
}

// Scope selects which records a refresh covers.
type Scope int

const (
	ScopeFull   Scope = iota // re-discover, reconcile, probe everything
	ScopeSubset              // probe only the named paths
)

// RefreshRequest asks the engine to re-probe repositories. Network
// requests additionally run a fetch before reading status.
type RefreshRequest struct {
	Scope   Scope
	Paths   []string // used when Scope == ScopeSubset
	Network bool
	Reason  string
}
