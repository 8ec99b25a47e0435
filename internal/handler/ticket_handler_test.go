package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ops-portal/internal/model"
	"ops-portal/internal/tickets"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTickets_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter()
		n := int64(120)
		svc.tickets.On("List", mock.Anything, "s1", "12").Return(tickets.Listing{
			Tickets: []model.TicketSummary{{TicketID: "T1", TicketNumber: &n, JobNumber: "1001"}},
			Total:   4,
			Loaded:  true,
		}, nil).Once()

		w := serve(svc, router, "GET", "/api/v1/tickets?q=12", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(w.Body)
		assert.Equal(t, float64(4), body["total"])
		assert.Len(t, body["tickets"], 1)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		router, svc := setupTestRouter()

		svc.auth.On("Authenticate", mock.Anything, "").Return(nil, "", apperrors.ErrUnauthorized).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest("GET", "/api/v1/tickets", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.tickets.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTickets_Refresh(t *testing.T) {
	router, svc := setupTestRouter()
	svc.tickets.On("Refresh", mock.Anything, "s1").
		Return(tickets.Listing{}, &apperrors.RemoteError{Op: "list_tickets", Message: "upstream down"}).Once()

	w := serve(svc, router, "POST", "/api/v1/tickets/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
