package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ops-portal/internal/auth"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.auth.On("SignIn", mock.Anything, "ana@example.com", "pw").
			Return(&auth.View{SessionID: "s1", Email: "ana@example.com"}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/signin", map[string]string{
			"email": "ana@example.com", "password": "pw", "from": "/tickets/new",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(w.Body)
		assert.Equal(t, "/tickets/new", body["redirect"])

		cookie := w.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(cookie, cookieName+"=s1"))
		assert.Contains(t, cookie, "HttpOnly")
		svc.auth.AssertExpectations(t)
	})

	t.Run("Failed - invalid credentials", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.auth.On("SignIn", mock.Anything, "ana@example.com", "bad").
			Return(nil, &auth.CredentialsError{Message: "Invalid login credentials"}).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/signin", map[string]string{"email": "ana@example.com", "password": "bad"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid login credentials", decode(w.Body)["error"])
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("Failed - missing fields", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.auth.On("SignIn", mock.Anything, "", "").
			Return(nil, apperrors.Validation("Email and password are required.")).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/signin", map[string]string{})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email and password are required.", decode(w.Body)["error"])
	})

	t.Run("Failed - invalid JSON", func(t *testing.T) {
		router, _ := setupTestRouter()
		req, _ := http.NewRequest("POST", "/api/v1/auth/signin", strings.NewReader(InvalidJSON))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignOut(t *testing.T) {
	router, svc := setupTestRouter()
	svc.auth.On("SignOut", mock.Anything, "s1").Return(nil).Once()

	req := withSession(createJSONHTTPRequest("POST", "/api/v1/auth/signout", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	svc.auth.AssertExpectations(t)
}

func TestSessionAndNav(t *testing.T) {
	t.Run("Anonymous", func(t *testing.T) {
		router, _ := setupTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest("GET", "/api/v1/auth/session", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decode(w.Body)["signed_in"])

		w = httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest("GET", "/api/v1/nav", nil))
		require.Equal(t, http.StatusOK, w.Code)
		items := decode(w.Body)["items"].([]interface{})
		assert.Len(t, items, 2)
	})

	t.Run("Expired cookie reads as signed out", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.auth.On("Authenticate", mock.Anything, "s1").Return(nil, "", apperrors.ErrUnauthorized)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(createJSONHTTPRequest("GET", "/api/v1/auth/session", nil)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decode(w.Body)["signed_in"])
	})

	t.Run("Signed in", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.signedIn()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(createJSONHTTPRequest("GET", "/api/v1/nav", nil)))
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(w.Body)
		assert.Equal(t, true, body["signed_in"])
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Len(t, body["items"].([]interface{}), 4)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("No cookie", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.auth.On("Authenticate", mock.Anything, "").Return(nil, "", apperrors.ErrUnauthorized).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest("GET", "/api/v1/draft", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode(w.Body)
		assert.Equal(t, "/signin", body["signin_path"])
		assert.Equal(t, "/api/v1/draft", body["from"])
		svc.draft.AssertNotCalled(t, "View", mock.Anything, mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		router, svc := setupTestRouter()
		svc.auth.On("Authenticate", mock.Anything, "s1").Return(nil, "", apperrors.ErrInternalServerError).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(createJSONHTTPRequest("GET", "/api/v1/draft", nil)))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Ping is public", func(t *testing.T) {
		router, _ := setupTestRouter()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
