// Package tickets is the read-only list of persisted tickets.
package tickets

import (
	"context"
	"ops-portal/internal/filter"
	"ops-portal/internal/model"
	"ops-portal/internal/repository"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultLimit = 300

// Listing is what the ticket screen renders.
type Listing struct {
	Tickets  []model.TicketSummary `json:"tickets"`
	Total    int                   `json:"total"`
	Loaded   bool                  `json:"loaded"`
	Message  string                `json:"message,omitempty"`
	LoadedAt *time.Time            `json:"loaded_at,omitempty"`
}

type Viewer struct {
	repo  repository.TicketRepository
	limit int
	now   func() time.Time

	mu       sync.RWMutex
	rows     []model.TicketSummary
	loaded   bool
	message  string
	loadedAt time.Time
}

func NewViewer(repo repository.TicketRepository, limit int) *Viewer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Viewer{repo: repo, limit: limit, now: time.Now}
}

// Load fetches the newest tickets. On failure the previous rows stay and the error becomes the message.
func (v *Viewer) Load(ctx context.Context) error {
	rows, err := v.repo.List(ctx, model.ListTicketsParams{Limit: v.limit})

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		logger.WithComponent("tickets").Error("list tickets failed", zap.Int("limit", v.limit), zap.Error(err))
		v.message = apperrors.UserMessage(err, "", "Failed to load tickets")
		return err
	}
	if rows == nil {
		rows = []model.TicketSummary{}
	}
	v.rows = rows
	v.loaded = true
	v.message = ""
	v.loadedAt = v.now()
	return nil
}

func (v *Viewer) Refresh(ctx context.Context) error {
	return v.Load(ctx)
}

func (v *Viewer) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// List filters the fetched rows by ticket number or job number.
func (v *Viewer) List(search string) Listing {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := Listing{
		Tickets: filter.Tickets(v.rows, search),
		Total:   len(v.rows),
		Loaded:  v.loaded,
		Message: v.message,
	}
	if out.Tickets == nil {
		out.Tickets = []model.TicketSummary{}
	}
	if v.loaded {
		at := v.loadedAt
		out.LoadedAt = &at
	}
	return out
}
