package service_test

import (
	"context"
	"testing"
	"time"

	"ops-portal/internal/auth"
	"ops-portal/internal/draft"
	"ops-portal/internal/lines"
	"ops-portal/internal/mocks"
	"ops-portal/internal/model"
	"ops-portal/internal/refdata"
	"ops-portal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func setupReference() *mocks.ReferenceRepositoryMock {
	repo := mocks.NewReferenceRepositoryMock()
	expectReference(repo)
	return repo
}

// expectReference registers one full reference load.
func expectReference(repo *mocks.ReferenceRepositoryMock) {
	repo.On("Jobs", mock.Anything, mock.Anything).Return([]model.Job{
		{JobID: "J1", JobNumber: "1001", PONumber: str("PO-9"), CustomerName: str("Acme")},
		{JobID: "J2", JobNumber: "2002"},
	}, nil).Once()
	repo.On("Employees", mock.Anything, mock.Anything).Return([]model.Employee{{EmployeeID: "E1", BadgeID: "B-1"}}, nil).Once()
	repo.On("PayCodes", mock.Anything).Return([]model.PayCode{}, nil).Once()
	repo.On("Customers", mock.Anything).Return([]model.Customer{}, nil).Once()
	repo.On("Suggestions", mock.Anything).Return(&model.Suggestions{}, nil).Once()
}

func setupServices(refRepo *mocks.ReferenceRepositoryMock, ticketRepo *mocks.TicketRepositoryMock, mode draft.Mode) (*service.Registry, service.ReferenceService, service.DraftService, service.TicketService) {
	registry := service.NewRegistry(ticketRepo, service.WorkspaceOptions{DraftMode: mode, TicketLimit: 50})
	loader := refdata.NewLoader(refRepo, model.ReferenceLimits{})
	return registry,
		service.NewReferenceService(registry, loader),
		service.NewDraftService(registry, loader),
		service.NewTicketService(registry)
}

func TestRegistry(t *testing.T) {
	registry := service.NewRegistry(mocks.NewTicketRepositoryMock(), service.WorkspaceOptions{})

	a := registry.Get("s1")
	assert.Same(t, a, registry.Get("s1"))
	assert.NotSame(t, a, registry.Get("s2"))
	assert.Equal(t, 2, registry.Len())

	registry.Drop("s1")
	assert.Equal(t, 1, registry.Len())
	assert.NotSame(t, a, registry.Get("s1"))

	assert.Equal(t, 0, registry.Sweep(time.Hour))
	assert.Equal(t, 2, registry.Sweep(-time.Second))
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_DropsOnSignOut(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewProviderMock()
	hub := auth.NewHub(provider, auth.NewMemorySessionStore(), time.Hour)
	registry := service.NewRegistry(mocks.NewTicketRepositoryMock(), service.WorkspaceOptions{})
	detach := registry.Attach(hub)
	defer detach()

	provider.On("SignIn", mock.Anything, "ana@example.com", "pw").
		Return(&auth.Grant{AccessToken: "tok", UserID: "u1", Email: "ana@example.com"}, nil).Once()
	provider.On("SignOut", mock.Anything, "tok").Return(nil).Once()

	view, err := hub.SignIn(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	registry.Get(view.SessionID)
	assert.Equal(t, 1, registry.Len())

	require.NoError(t, hub.SignOut(ctx, view.SessionID))
	assert.Equal(t, 0, registry.Len())
}

func TestReferenceService(t *testing.T) {
	ctx := context.Background()
	refRepo := setupReference()
	_, refs, _, _ := setupServices(refRepo, mocks.NewTicketRepositoryMock(), draft.ModeIncremental)

	snap, err := refs.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, snap.Jobs, 2)

	// Cached for the session; the mocks allow a single load.
	again, err := refs.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, snap, again)

	jobs, err := refs.Jobs(ctx, "s1", "po-9")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "J1", jobs[0].JobID)

	refRepo.On("PayCodes", mock.Anything).Return([]model.PayCode{{PayCodeID: "P1", Code: "OT"}}, nil).Once()
	retried, err := refs.Retry(ctx, "s1", refdata.KindPayCodes)
	require.NoError(t, err)
	assert.Len(t, retried.PayCodes, 1)
	assert.Len(t, retried.Jobs, 2)
	refRepo.AssertExpectations(t)
}

func TestDraftService_UsesSessionReference(t *testing.T) {
	ctx := context.Background()
	ticketRepo := mocks.NewTicketRepositoryMock()
	refRepo := setupReference()
	_, _, drafts, _ := setupServices(refRepo, ticketRepo, draft.ModeIncremental)

	ticketRepo.On("CreateHeader", mock.Anything, mock.Anything).Return(&model.TicketRef{TicketID: "T1"}, nil).Once()
	v, err := drafts.UpdateHeader(ctx, "s1", draft.HeaderPatch{JobID: str("J1"), TicketDate: str("2024-03-14")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", v.CustomerName)
	assert.Equal(t, draft.StateDrafted, v.State)

	_, err = drafts.UpdateRow(ctx, "s1", lines.KindLabor, 0, "employee_code", "B-1")
	require.NoError(t, err)
	v, err = drafts.UpdateRow(ctx, "s1", lines.KindLabor, 0, "pay_code_id", "P1")
	require.NoError(t, err)
	require.Len(t, v.Payload.Labor, 1)
	assert.Equal(t, "E1", v.Payload.Labor[0].EmployeeID)

	// Another session starts from scratch and loads its own reference data.
	expectReference(refRepo)
	other, err := drafts.View(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, draft.StateEmpty, other.State)
	refRepo.AssertExpectations(t)
}

func TestTicketService(t *testing.T) {
	ctx := context.Background()
	ticketRepo := mocks.NewTicketRepositoryMock()
	_, _, _, ticketSvc := setupServices(mocks.NewReferenceRepositoryMock(), ticketRepo, draft.ModeIncremental)

	n := int64(7)
	ticketRepo.On("List", mock.Anything, model.ListTicketsParams{Limit: 50}).
		Return([]model.TicketSummary{{TicketID: "T7", TicketNumber: &n, JobNumber: "1001"}}, nil).Twice()

	l, err := ticketSvc.List(ctx, "s1", "")
	require.NoError(t, err)
	assert.Len(t, l.Tickets, 1)

	// Filtering does not refetch.
	l, err = ticketSvc.List(ctx, "s1", "nope")
	require.NoError(t, err)
	assert.Empty(t, l.Tickets)
	ticketRepo.AssertNumberOfCalls(t, "List", 1)

	l, err = ticketSvc.Refresh(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, l.Tickets, 1)
	ticketRepo.AssertNumberOfCalls(t, "List", 2)
}
