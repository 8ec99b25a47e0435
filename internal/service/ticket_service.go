package service

import (
	"context"
	"ops-portal/internal/tickets"
)

type TicketService interface {
	List(ctx context.Context, sessionID string, search string) (tickets.Listing, error)
	Refresh(ctx context.Context, sessionID string) (tickets.Listing, error)
}

type TicketServiceImpl struct {
	registry *Registry
}

func NewTicketService(registry *Registry) TicketService {
	return &TicketServiceImpl{registry: registry}
}

// List fetches on first use and filters the fetched rows afterwards. A failed fetch is reported
// through Listing.Message.
func (s *TicketServiceImpl) List(ctx context.Context, sessionID string, search string) (tickets.Listing, error) {
	viewer := s.registry.Get(sessionID).Tickets
	if !viewer.Loaded() {
		if err := viewer.Load(ctx); err != nil && ctx.Err() != nil {
			return tickets.Listing{}, ctx.Err()
		}
	}
	return viewer.List(search), nil
}

func (s *TicketServiceImpl) Refresh(ctx context.Context, sessionID string) (tickets.Listing, error) {
	viewer := s.registry.Get(sessionID).Tickets
	if err := viewer.Refresh(ctx); err != nil && ctx.Err() != nil {
		return tickets.Listing{}, ctx.Err()
	}
	return viewer.List(""), nil
}
