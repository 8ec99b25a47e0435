package service

import (
	"context"
	"ops-portal/internal/draft"
	"ops-portal/internal/lines"
	"ops-portal/internal/refdata"
)

type DraftService interface {
	View(ctx context.Context, sessionID string) (draft.View, error)
	UpdateHeader(ctx context.Context, sessionID string, patch draft.HeaderPatch) (draft.View, error)
	AddRow(ctx context.Context, sessionID string, kind lines.Kind) (draft.View, error)
	UpdateRow(ctx context.Context, sessionID string, kind lines.Kind, index int, field, value string) (draft.View, error)
	RemoveRow(ctx context.Context, sessionID string, kind lines.Kind, index int) (draft.View, error)
	SaveLines(ctx context.Context, sessionID string) (draft.View, error)
	Submit(ctx context.Context, sessionID string) (draft.View, error)
	Cancel(ctx context.Context, sessionID string, confirmed bool) (draft.View, error)
	Refresh(ctx context.Context, sessionID string) (draft.View, error)
}

type DraftServiceImpl struct {
	registry *Registry
	loader   *refdata.Loader
}

func NewDraftService(registry *Registry, loader *refdata.Loader) DraftService {
	return &DraftServiceImpl{registry: registry, loader: loader}
}

// controller returns the session's draft with its lookups attached. A failed lookup load is not
// fatal: the draft still works, only employee codes and customer names go unresolved.
func (s *DraftServiceImpl) controller(ctx context.Context, sessionID string) (*draft.Controller, error) {
	ws := s.registry.Get(sessionID)
	if _, err := ws.ensureReference(ctx, s.loader); err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return ws.Draft, nil
}

func (s *DraftServiceImpl) View(ctx context.Context, sessionID string) (draft.View, error) {
	c, err := s.controller(ctx, sessionID)
	if err != nil {
		return draft.View{}, err
	}
	return c.View(), nil
}

func (s *DraftServiceImpl) UpdateHeader(ctx context.Context, sessionID string, patch draft.HeaderPatch) (draft.View, error) {
	c, err := s.controller(ctx, sessionID)
	if err != nil {
		return draft.View{}, err
	}
	return c.UpdateHeader(ctx, patch)
}

func (s *DraftServiceImpl) AddRow(ctx context.Context, sessionID string, kind lines.Kind) (draft.View, error) {
	return s.registry.Get(sessionID).Draft.AddRow(kind)
}

func (s *DraftServiceImpl) UpdateRow(ctx context.Context, sessionID string, kind lines.Kind, index int, field, value string) (draft.View, error) {
	return s.registry.Get(sessionID).Draft.UpdateRow(kind, index, field, value)
}

func (s *DraftServiceImpl) RemoveRow(ctx context.Context, sessionID string, kind lines.Kind, index int) (draft.View, error) {
	return s.registry.Get(sessionID).Draft.RemoveRow(kind, index)
}

func (s *DraftServiceImpl) SaveLines(ctx context.Context, sessionID string) (draft.View, error) {
	c, err := s.controller(ctx, sessionID)
	if err != nil {
		return draft.View{}, err
	}
	return c.SaveLines(ctx)
}

func (s *DraftServiceImpl) Submit(ctx context.Context, sessionID string) (draft.View, error) {
	c, err := s.controller(ctx, sessionID)
	if err != nil {
		return draft.View{}, err
	}
	return c.Submit(ctx)
}

func (s *DraftServiceImpl) Cancel(ctx context.Context, sessionID string, confirmed bool) (draft.View, error) {
	return s.registry.Get(sessionID).Draft.Cancel(ctx, confirmed)
}

func (s *DraftServiceImpl) Refresh(ctx context.Context, sessionID string) (draft.View, error) {
	return s.registry.Get(sessionID).Draft.Refresh(ctx)
}
