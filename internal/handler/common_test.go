package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"ops-portal/internal/auth"
	"ops-portal/internal/handler"
	"ops-portal/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

const cookieName = "portal_session"

var (
	InvalidJSON = `{"invalid": json}`
)

type testServices struct {
	auth      *mocks.AuthServiceMock
	reference *mocks.ReferenceServiceMock
	draft     *mocks.DraftServiceMock
	tickets   *mocks.TicketServiceMock
}

func setupTestRouter() (*gin.Engine, *testServices) {
	gin.SetMode(gin.TestMode)
	svc := &testServices{
		auth:      mocks.NewAuthServiceMock(),
		reference: mocks.NewReferenceServiceMock(),
		draft:     mocks.NewDraftServiceMock(),
		tickets:   mocks.NewTicketServiceMock(),
	}
	router := handler.NewRouter(handler.Services{
		Auth:      svc.auth,
		Reference: svc.reference,
		Draft:     svc.draft,
		Tickets:   svc.tickets,
	}, handler.RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		Cookie:         handler.CookieOptions{Name: cookieName, TTL: time.Hour},
	})
	return router, svc
}

// signedIn makes the auth mock accept session "s1".
func (s *testServices) signedIn() {
	s.auth.On("Authenticate", mock.Anything, "s1").
		Return(&auth.View{SessionID: "s1", UserID: "u1", Email: "ana@example.com"}, "token-1", nil)
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withSession attaches the session cookie.
func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "s1"})
	return req
}

func decode(body *bytes.Buffer) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(body.Bytes(), &out)
	return out
}
