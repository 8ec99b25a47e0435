package service

import (
	"context"
	"ops-portal/internal/auth"
	"ops-portal/internal/draft"
	"ops-portal/internal/refdata"
	"ops-portal/internal/repository"
	"ops-portal/internal/tickets"
	"ops-portal/pkg/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Workspace is the per-session screen state: one draft, one lookup snapshot, one ticket list.
type Workspace struct {
	Draft   *draft.Controller
	Tickets *tickets.Viewer

	refMu     sync.Mutex
	reference *refdata.Snapshot
	lastSeen  time.Time
}

// Reference returns the current lookup snapshot, or nil before the first load.
func (w *Workspace) Reference() *refdata.Snapshot {
	w.refMu.Lock()
	defer w.refMu.Unlock()
	return w.reference
}

// ensureReference loads the lookups on first use and hands them to the draft.
func (w *Workspace) ensureReference(ctx context.Context, loader *refdata.Loader) (*refdata.Snapshot, error) {
	w.refMu.Lock()
	defer w.refMu.Unlock()
	if w.reference != nil {
		return w.reference, nil
	}

	snap, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	w.reference = snap
	w.Draft.SetReference(snap)
	return snap, nil
}

func (w *Workspace) retryReference(ctx context.Context, loader *refdata.Loader, kind refdata.Kind) (*refdata.Snapshot, error) {
	w.refMu.Lock()
	defer w.refMu.Unlock()

	snap, err := loader.Retry(ctx, w.reference, kind)
	if err != nil {
		return nil, err
	}
	w.reference = snap
	w.Draft.SetReference(snap)
	return snap, nil
}

type WorkspaceOptions struct {
	DraftMode   draft.Mode
	TicketLimit int
}

// Registry keeps one workspace per signed-in session.
type Registry struct {
	tickets repository.TicketRepository
	opts    WorkspaceOptions
	now     func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(tickets repository.TicketRepository, opts WorkspaceOptions) *Registry {
	return &Registry{
		tickets:    tickets,
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = &Workspace{
			Draft:   draft.NewController(r.tickets, r.opts.DraftMode),
			Tickets: tickets.NewViewer(r.tickets, r.opts.TicketLimit),
		}
		r.workspaces[sessionID] = ws
	}
	ws.lastSeen = r.now()
	return ws
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, sessionID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Attach drops a session's workspace when the hub reports its sign-out.
func (r *Registry) Attach(hub *auth.Hub) func() {
	return hub.Subscribe(func(ev auth.Event) {
		if ev.Type == auth.EventSignedOut {
			r.Drop(ev.SessionID)
		}
	})
}

// Sweep drops workspaces not used for longer than maxIdle and returns how many went.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	dropped := 0
	for id, ws := range r.workspaces {
		if ws.lastSeen.Before(cutoff) {
			delete(r.workspaces, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle workspaces every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	log := logger.WithComponent("workspaces")
	log.Info("Workspace sweeper started", zap.Duration("interval", interval), zap.Duration("max_idle", maxIdle))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Workspace sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.Info("Dropped idle workspaces", zap.Int("count", n))
			}
		}
	}
}
