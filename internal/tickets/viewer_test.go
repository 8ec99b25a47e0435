package tickets_test

import (
	"context"
	"errors"
	"testing"

	"ops-portal/internal/mocks"
	"ops-portal/internal/model"
	"ops-portal/internal/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func num(n int64) *int64 { return &n }

func sample() []model.TicketSummary {
	return []model.TicketSummary{
		{TicketID: "T3", TicketNumber: num(1203), JobNumber: "J-77"},
		{TicketID: "T2", TicketNumber: num(1202), JobNumber: "J-12"},
		{TicketID: "T1", TicketNumber: nil, JobNumber: "J-12"},
	}
}

func TestViewer_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := mocks.NewTicketRepositoryMock()
		repo.On("List", mock.Anything, model.ListTicketsParams{Limit: 300}).Return(sample(), nil).Once()

		v := tickets.NewViewer(repo, 0)
		require.NoError(t, v.Load(ctx))

		l := v.List("")
		assert.True(t, l.Loaded)
		assert.Equal(t, 3, l.Total)
		assert.Len(t, l.Tickets, 3)
		assert.NotNil(t, l.LoadedAt)
		repo.AssertExpectations(t)
	})

	t.Run("Failed - keeps previous rows", func(t *testing.T) {
		repo := mocks.NewTicketRepositoryMock()
		repo.On("List", mock.Anything, model.ListTicketsParams{Limit: 25}).Return(sample(), nil).Once()
		repo.On("List", mock.Anything, model.ListTicketsParams{Limit: 25}).Return(nil, errors.New("timeout")).Once()

		v := tickets.NewViewer(repo, 25)
		require.NoError(t, v.Load(ctx))
		require.Error(t, v.Refresh(ctx))

		l := v.List("")
		assert.Len(t, l.Tickets, 3)
		assert.Equal(t, "Failed to load tickets: timeout.", l.Message)
	})

	t.Run("Not loaded yet", func(t *testing.T) {
		v := tickets.NewViewer(mocks.NewTicketRepositoryMock(), 10)
		l := v.List("x")
		assert.False(t, l.Loaded)
		assert.NotNil(t, l.Tickets)
		assert.Nil(t, l.LoadedAt)
	})
}

func TestViewer_List(t *testing.T) {
	repo := mocks.NewTicketRepositoryMock()
	repo.On("List", mock.Anything, mock.Anything).Return(sample(), nil).Once()
	v := tickets.NewViewer(repo, 0)
	require.NoError(t, v.Load(context.Background()))

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"T3", "T2", "T1"}},
		{"1202", []string{"T2"}},
		{"j-12", []string{"T2", "T1"}},
		{"  77 ", []string{"T3"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			ids := []string{}
			for _, tk := range v.List(tt.search).Tickets {
				ids = append(ids, tk.TicketID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, 3, v.List(tt.search).Total)
		})
	}
}
