package service

import (
	"context"
	"ops-portal/internal/filter"
	"ops-portal/internal/model"
	"ops-portal/internal/refdata"
)

type ReferenceService interface {
	Snapshot(ctx context.Context, sessionID string) (*refdata.Snapshot, error)
	Retry(ctx context.Context, sessionID string, kind refdata.Kind) (*refdata.Snapshot, error)
	Jobs(ctx context.Context, sessionID string, search string) ([]model.Job, error)
}

type ReferenceServiceImpl struct {
	registry *Registry
	loader   *refdata.Loader
}

func NewReferenceService(registry *Registry, loader *refdata.Loader) ReferenceService {
	return &ReferenceServiceImpl{registry: registry, loader: loader}
}

// Snapshot loads the lookups once per session; later calls return the cached snapshot.
func (s *ReferenceServiceImpl) Snapshot(ctx context.Context, sessionID string) (*refdata.Snapshot, error) {
	return s.registry.Get(sessionID).ensureReference(ctx, s.loader)
}

// Retry reloads one lookup, leaving the others as they are.
func (s *ReferenceServiceImpl) Retry(ctx context.Context, sessionID string, kind refdata.Kind) (*refdata.Snapshot, error) {
	return s.registry.Get(sessionID).retryReference(ctx, s.loader, kind)
}

func (s *ReferenceServiceImpl) Jobs(ctx context.Context, sessionID string, search string) ([]model.Job, error) {
	snap, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return filter.Jobs(snap.Jobs, search), nil
}
