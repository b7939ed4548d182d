// Package engine owns the authoritative repository status cache and
// schedules concurrent probes. All mutation funnels through the engine;
// consumers only ever see snapshot copies.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/busygit/busygit/internal/config"
	"github.com/busygit/busygit/internal/discovery"
	"github.com/busygit/busygit/internal/model"
	"github.com/busygit/busygit/internal/probe"
)

// Event signals that the cache changed. Path is empty when the tracked
// set itself changed (reconciliation after discovery).
type Event struct {
	Path string
	Time time.Time
}

// record wraps a model.Record with scheduling state. The generation
// counter fences late probe results: a result is applied only if it
// carries the record's current generation.
type record struct {
	model.Record

	generation     uint64
	inflight       bool
	pending        bool // re-dispatch once the in-flight probe completes
	pendingNetwork bool // the coalesced request asked for a fetch
}

type Engine struct {
	cfg    *config.Config
	disc   discovery.Discoverer
	prober probe.Prober
	log    *logrus.Logger

	sem *semaphore.Weighted

	mu       sync.Mutex
	records  map[string]*record
	discErrs []discovery.PathError
	closed   bool

	requests chan model.RefreshRequest
	events   chan Event

	now func() time.Time
}

func New(cfg *config.Config, disc discovery.Discoverer, prober probe.Prober, log *logrus.Logger) *Engine {
	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		cfg:      cfg,
		disc:     disc,
		prober:   prober,
		log:      log,
		sem:      semaphore.NewWeighted(int64(workers)),
		records:  make(map[string]*record),
		requests: make(chan model.RefreshRequest, 16),
		events:   make(chan Event, 100),
		now:      time.Now,
	}
}

// Events delivers a notification after each applied cache mutation. The
// channel is buffered; a dropped event is harmless because consumers
// re-read the full snapshot on every event.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Refresh enqueues a refresh request. It never blocks; if the queue is
// full the request is dropped and will be covered by the staleness tick.
func (e *Engine) Refresh(req model.RefreshRequest) {
	select {
	case e.requests <- req:
	default:
		e.log.WithField("reason", req.Reason).Warn("refresh queue full, request dropped")
	}
}

// Run processes refresh requests and drives the background staleness
// tick until ctx is cancelled. Probes are dispatched fire-and-forget;
// Run itself never blocks on a probe's completion.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.requests:
			e.handle(ctx, req)
		case <-ticker.C:
			e.refreshStale(ctx)
		}
	}
}

func (e *Engine) handle(ctx context.Context, req model.RefreshRequest) {
	switch req.Scope {
	case model.ScopeFull:
		e.log.WithField("reason", req.Reason).Debug("full refresh")
		paths := e.reconcile(ctx)
		for _, p := range paths {
			e.dispatch(ctx, p, req.Network)
		}
	case model.ScopeSubset:
		e.log.WithFields(logrus.Fields{
			"reason": req.Reason,
			"count":  len(req.Paths),
		}).Debug("subset refresh")
		for _, p := range req.Paths {
			e.dispatch(ctx, p, req.Network)
		}
	}
}

// reconcile re-runs discovery and merges the result into the cache: new
// identities are seeded Unknown, and a tracked identity is dropped only
// when its path no longer resolves to a git work-tree. Returns the full
// set of tracked paths.
func (e *Engine) reconcile(ctx context.Context) []string {
	discCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := e.disc.Discover(discCtx)
	if err != nil {
		e.log.WithError(err).Error("discovery failed")
		return nil
	}
	for _, pe := range result.Errors {
		e.log.WithField("path", pe.Path).WithError(pe.Err).Warn("discovery error")
	}

	found := make(map[string]discovery.Repo, len(result.Repos))
	for _, r := range result.Repos {
		found[r.Path] = r
	}

	e.mu.Lock()
	e.discErrs = result.Errors

	for path, r := range found {
		if _, exists := e.records[path]; exists {
			continue
		}
		e.records[path] = &record{
			Record: model.Record{
				Path:       path,
				IsWorktree: r.IsWorktree,
				MainRepo:   r.MainRepo,
			},
		}
	}

	for path := range e.records {
		if _, ok := found[path]; ok {
			continue
		}
		// Absence from a scan is not proof of disappearance: the watch
		// root may have been unreadable this round.
		if discovery.IsRepoRoot(path) {
			continue
		}
		delete(e.records, path)
		e.log.WithField("repo", path).Info("repository vanished, dropping")
	}

	paths := make([]string, 0, len(e.records))
	for path := range e.records {
		paths = append(paths, path)
	}
	e.mu.Unlock()

	e.notify("")
	return paths
}

// dispatch launches a probe for one identity. At most one probe per
// identity is in flight; a request for a busy identity coalesces into a
// re-dispatch after the current probe completes, keeping the network
// upgrade if either request asked for it.
func (e *Engine) dispatch(ctx context.Context, path string, network bool) {
	e.mu.Lock()
	rec, ok := e.records[path]
	if !ok {
		e.mu.Unlock()
		return
	}
	if rec.inflight {
		rec.pending = true
		rec.pendingNetwork = rec.pendingNetwork || network
		e.mu.Unlock()
		return
	}
	rec.inflight = true
	rec.generation++
	gen := rec.generation
	e.mu.Unlock()

	go e.probeWorker(ctx, path, gen, network)
}

func (e *Engine) probeWorker(ctx context.Context, path string, gen uint64, network bool) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		e.clearInflight(path, gen)
		return
	}
	defer e.sem.Release(1)

	var (
		out *probe.Outcome
		err error
	)
	if network {
		out, err = e.prober.FetchProbe(ctx, path)
	} else {
		out, err = e.prober.Probe(ctx, path)
	}

	e.apply(ctx, path, gen, out, err)
}

// apply merges a completed probe into the cache. Results for a stale
// generation or a vanished identity are discarded: a slow probe must
// never clobber a fresher result.
func (e *Engine) apply(ctx context.Context, path string, gen uint64, out *probe.Outcome, err error) {
	e.mu.Lock()
	rec, ok := e.records[path]
	if !ok || gen != rec.generation {
		e.mu.Unlock()
		e.log.WithField("repo", path).Debug("discarding superseded probe result")
		return
	}

	rec.inflight = false
	if now := e.now(); now.After(rec.LastProbed) {
		rec.LastProbed = now
	}

	if err != nil {
		rec.Local = model.LocalUnknown
		rec.Remote = model.RemoteStatus{State: model.RemoteUnknown}
		rec.LastErr = err.Error()
		e.log.WithField("repo", path).WithError(err).Warn("probe failed")
	} else {
		rec.Branch = out.Branch
		rec.Detached = out.Detached
		rec.Local = out.Local
		rec.Remote = out.Remote
		rec.LastErr = out.Note
	}

	redispatch := rec.pending
	network := rec.pendingNetwork
	rec.pending, rec.pendingNetwork = false, false
	e.mu.Unlock()

	e.notify(path)

	if redispatch {
		e.dispatch(ctx, path, network)
	}
}

func (e *Engine) clearInflight(path string, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rec, ok := e.records[path]; ok && gen == rec.generation {
		rec.inflight = false
	}
}

// refreshStale dispatches probes for records older than the staleness
// threshold. This is the scheduler's decision, not the UI's.
func (e *Engine) refreshStale(ctx context.Context) {
	cutoff := e.now().Add(-e.cfg.StaleAfter)

	e.mu.Lock()
	var stale []string
	for path, rec := range e.records {
		if !rec.inflight && rec.LastProbed.Before(cutoff) {
			stale = append(stale, path)
		}
	}
	e.mu.Unlock()

	for _, p := range stale {
		e.dispatch(ctx, p, false)
	}
}

// Snapshot returns copies of all tracked records. The engine retains
// sole ownership of the live records; ordering is the caller's concern.
func (e *Engine) Snapshot() []model.Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.Record, 0, len(e.records))
	for _, rec := range e.records {
		out = append(out, rec.Record)
	}
	return out
}

// DiscoveryErrors returns the per-path errors from the last discovery.
func (e *Engine) DiscoveryErrors() []discovery.PathError {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]discovery.PathError, len(e.discErrs))
	copy(out, e.discErrs)
	return out
}

func (e *Engine) notify(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.events <- Event{Path: path, Time: e.now()}:
	default:
		// Channel full; consumers snapshot on every event anyway
	}
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
	return nil
}
