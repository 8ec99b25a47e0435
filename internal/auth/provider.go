package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Grant is the outcome of a successful password sign-in.
type Grant struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresAt    time.Time
}

// Provider is the hosted authentication endpoint.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Grant, error)
	SignOut(ctx context.Context, accessToken string) error
}

// CredentialsError carries the provider's rejection text, e.g. "Invalid login credentials".
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string { return e.Message }

func (e *CredentialsError) Unwrap() error { return apperrors.ErrInvalidCredentials }

// Claims is the subset of the access-token claims the portal relies on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type GoTrueProvider struct {
	baseURL   string
	anonKey   string
	jwtSecret string
	http      *http.Client
	now       func() time.Time
}

// NewGoTrueProvider talks to {baseURL}/auth/v1. When jwtSecret is set, access tokens are verified
// locally and their claims take precedence over the response body.
func NewGoTrueProvider(baseURL, anonKey, jwtSecret string, timeout time.Duration) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		jwtSecret: jwtSecret,
		http:      &http.Client{Timeout: timeout},
		now:       time.Now,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)

	raw, status, err := p.send(req)
	if err != nil {
		return nil, err
	}

	if status >= 300 {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		msg := er.text()
		if msg == "" {
			msg = http.StatusText(status)
		}
		if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity {
			return nil, &CredentialsError{Message: msg}
		}
		return nil, &apperrors.RemoteError{Op: "signin", Status: status, Message: msg}
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, &apperrors.RemoteError{Op: "signin", Status: status, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if tr.AccessToken == "" {
		return nil, &apperrors.RemoteError{Op: "signin", Status: status, Message: "no access token returned"}
	}

	grant := &Grant{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
	}
	if tr.ExpiresIn > 0 {
		grant.ExpiresAt = p.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	if p.jwtSecret != "" {
		claims, err := ParseAccessToken(p.jwtSecret, tr.AccessToken)
		if err != nil {
			return nil, &apperrors.RemoteError{Op: "signin", Message: fmt.Sprintf("invalid access token: %v", err)}
		}
		grant.UserID = claims.Subject
		if claims.Email != "" {
			grant.Email = claims.Email
		}
		if claims.ExpiresAt != nil {
			grant.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	return grant, nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	raw, status, err := p.send(req)
	if err != nil {
		return err
	}
	// An already-revoked token still ends the local session.
	if status >= 300 && status != http.StatusUnauthorized && status != http.StatusNotFound {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		return &apperrors.RemoteError{Op: "signout", Status: status, Message: er.text()}
	}
	return nil
}

func (p *GoTrueProvider) send(req *http.Request) ([]byte, int, error) {
	resp, err := p.http.Do(req)
	if err != nil {
		logger.WithComponent("auth").Warn("auth request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, 0, &apperrors.RemoteError{Op: "auth", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &apperrors.RemoteError{Op: "auth", Status: resp.StatusCode, Message: err.Error()}
	}
	return raw, resp.StatusCode, nil
}

// ParseAccessToken verifies an HS256 access token and returns its claims.
func ParseAccessToken(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token claims")
}
