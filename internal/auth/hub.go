// Package auth owns the portal's single authentication context: sign-in against the hosted auth
// endpoint, session persistence, and change notification for everything that depends on it.
package auth

import (
	"context"
	"errors"
	"fmt"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Email     string    `json:"email,omitempty"`
}

// View is the read-only projection of a session handed to route guards and navigation.
type View struct {
	SessionID string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Hub is the process-wide authentication context. All session changes go through it and are
// announced once to every subscriber.
type Hub struct {
	provider Provider
	store    SessionStore
	ttl      time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	subs   map[int]func(Event)
	nextID int
}

func NewHub(provider Provider, store SessionStore, ttl time.Duration) *Hub {
	return &Hub{
		provider: provider,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		subs:     make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every subsequent event and returns its cancel function.
// fn runs on the goroutine that caused the change and must not block.
func (h *Hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Hub) publish(ev Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SignIn returns the new session; View.SessionID is the value the caller hands back on later requests.
func (h *Hub) SignIn(ctx context.Context, email, password string) (*View, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("Email and password are required.")
	}

	grant, err := h.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:           uuid.New().String(),
		UserID:       grant.UserID,
		Email:        grant.Email,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.ExpiresAt,
	}
	if sess.Email == "" {
		sess.Email = email
	}

	ttl := h.ttl
	if !sess.ExpiresAt.IsZero() {
		if remaining := sess.ExpiresAt.Sub(h.now()); remaining > 0 && (ttl == 0 || remaining < ttl) {
			ttl = remaining
		}
	}
	if err := h.store.Save(ctx, sess, ttl); err != nil {
		return nil, err
	}

	logger.WithComponent("auth").Info("signed in", zap.String("user_id", sess.UserID))
	h.publish(Event{Type: EventSignedIn, SessionID: sess.ID, Email: sess.Email})
	return project(sess), nil
}

// SignOut ends the session locally even when the provider call fails; the provider error is logged.
func (h *Hub) SignOut(ctx context.Context, sessionID string) error {
	sess, err := h.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := h.provider.SignOut(ctx, sess.AccessToken); err != nil {
		logger.WithComponent("auth").Warn("provider sign-out failed", zap.Error(err))
	}
	if err := h.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	h.publish(Event{Type: EventSignedOut, SessionID: sessionID, Email: sess.Email})
	return nil
}

func (h *Hub) lookup(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	sess, err := h.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		logger.WithComponent("auth").Error("session lookup failed", zap.Error(err))
		return nil, fmt.Errorf("%w: session store: %v", apperrors.ErrInternalServerError, err)
	}
	if !sess.ExpiresAt.IsZero() && !h.now().Before(sess.ExpiresAt) {
		_ = h.store.Delete(ctx, sessionID)
		h.publish(Event{Type: EventSignedOut, SessionID: sessionID, Email: sess.Email})
		return nil, apperrors.ErrUnauthorized
	}
	return sess, nil
}

// Authenticate returns the session projection and its bearer token in one lookup.
func (h *Hub) Authenticate(ctx context.Context, sessionID string) (*View, string, error) {
	sess, err := h.lookup(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	return project(sess), sess.AccessToken, nil
}

// Session returns the projection for sessionID, or ErrUnauthorized when there is none.
func (h *Hub) Session(ctx context.Context, sessionID string) (*View, error) {
	view, _, err := h.Authenticate(ctx, sessionID)
	return view, err
}

// AccessToken returns the bearer token remote calls of this session are made with.
func (h *Hub) AccessToken(ctx context.Context, sessionID string) (string, error) {
	_, token, err := h.Authenticate(ctx, sessionID)
	return token, err
}

func project(s *Session) *View {
	return &View{
		SessionID: s.ID,
		UserID:    s.UserID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}
}
