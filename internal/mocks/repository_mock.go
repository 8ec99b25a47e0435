package mocks

import (
	"context"
	"ops-portal/internal/model"

	"github.com/stretchr/testify/mock"
)

type TicketRepositoryMock struct {
	mock.Mock
}

func NewTicketRepositoryMock() *TicketRepositoryMock {
	return &TicketRepositoryMock{}
}

func (m *TicketRepositoryMock) CreateHeader(ctx context.Context, req model.CreateHeaderRequest) (*model.TicketRef, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketRef), args.Error(1)
}

func (m *TicketRepositoryMock) CreateWithLines(ctx context.Context, req model.CreateWithLinesRequest) (*model.TicketRef, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketRef), args.Error(1)
}

func (m *TicketRepositoryMock) AppendLines(ctx context.Context, req model.AppendLinesRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *TicketRepositoryMock) FindRef(ctx context.Context, ticketID string) (*model.TicketRef, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketRef), args.Error(1)
}

func (m *TicketRepositoryMock) Delete(ctx context.Context, ticketID string) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

func (m *TicketRepositoryMock) List(ctx context.Context, params model.ListTicketsParams) ([]model.TicketSummary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TicketSummary), args.Error(1)
}

type ReferenceRepositoryMock struct {
	mock.Mock
}

func NewReferenceRepositoryMock() *ReferenceRepositoryMock {
	return &ReferenceRepositoryMock{}
}

func (m *ReferenceRepositoryMock) Jobs(ctx context.Context, limit int) ([]model.Job, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *ReferenceRepositoryMock) Employees(ctx context.Context, limit int) ([]model.Employee, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *ReferenceRepositoryMock) PayCodes(ctx context.Context) ([]model.PayCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PayCode), args.Error(1)
}

func (m *ReferenceRepositoryMock) Customers(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *ReferenceRepositoryMock) Suggestions(ctx context.Context) (*model.Suggestions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Suggestions), args.Error(1)
}
