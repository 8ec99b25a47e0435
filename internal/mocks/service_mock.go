package mocks

import (
	"context"
	"ops-portal/internal/auth"
	"ops-portal/internal/draft"
	"ops-portal/internal/lines"
	"ops-portal/internal/model"
	"ops-portal/internal/refdata"
	"ops-portal/internal/tickets"

	"github.com/stretchr/testify/mock"
)

type AuthServiceMock struct {
	mock.Mock
}

func NewAuthServiceMock() *AuthServiceMock {
	return &AuthServiceMock{}
}

func (m *AuthServiceMock) SignIn(ctx context.Context, email, password string) (*auth.View, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.View), args.Error(1)
}

func (m *AuthServiceMock) SignOut(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *AuthServiceMock) Authenticate(ctx context.Context, sessionID string) (*auth.View, string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*auth.View), args.String(1), args.Error(2)
}

type ReferenceServiceMock struct {
	mock.Mock
}

func NewReferenceServiceMock() *ReferenceServiceMock {
	return &ReferenceServiceMock{}
}

func (m *ReferenceServiceMock) Snapshot(ctx context.Context, sessionID string) (*refdata.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Snapshot), args.Error(1)
}

func (m *ReferenceServiceMock) Retry(ctx context.Context, sessionID string, kind refdata.Kind) (*refdata.Snapshot, error) {
	args := m.Called(ctx, sessionID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Snapshot), args.Error(1)
}

func (m *ReferenceServiceMock) Jobs(ctx context.Context, sessionID string, search string) ([]model.Job, error) {
	args := m.Called(ctx, sessionID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

type DraftServiceMock struct {
	mock.Mock
}

func NewDraftServiceMock() *DraftServiceMock {
	return &DraftServiceMock{}
}

func (m *DraftServiceMock) view(args mock.Arguments) (draft.View, error) {
	v, _ := args.Get(0).(draft.View)
	return v, args.Error(1)
}

func (m *DraftServiceMock) View(ctx context.Context, sessionID string) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *DraftServiceMock) UpdateHeader(ctx context.Context, sessionID string, patch draft.HeaderPatch) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID, patch))
}

func (m *DraftServiceMock) AddRow(ctx context.Context, sessionID string, kind lines.Kind) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID, kind))
}

func (m *DraftServiceMock) UpdateRow(ctx context.Context, sessionID string, kind lines.Kind, index int, field, value string) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID, kind, index, field, value))
}

func (m *DraftServiceMock) RemoveRow(ctx context.Context, sessionID string, kind lines.Kind, index int) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID, kind, index))
}

func (m *DraftServiceMock) SaveLines(ctx context.Context, sessionID string) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *DraftServiceMock) Submit(ctx context.Context, sessionID string) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *DraftServiceMock) Cancel(ctx context.Context, sessionID string, confirmed bool) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID, confirmed))
}

func (m *DraftServiceMock) Refresh(ctx context.Context, sessionID string) (draft.View, error) {
	return m.view(m.Called(ctx, sessionID))
}

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) List(ctx context.Context, sessionID string, search string) (tickets.Listing, error) {
	args := m.Called(ctx, sessionID, search)
	l, _ := args.Get(0).(tickets.Listing)
	return l, args.Error(1)
}

func (m *TicketServiceMock) Refresh(ctx context.Context, sessionID string) (tickets.Listing, error) {
	args := m.Called(ctx, sessionID)
	l, _ := args.Get(0).(tickets.Listing)
	return l, args.Error(1)
}
