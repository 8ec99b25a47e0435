package auth

import (
	"context"
	"fmt"
	apperrors "ops-portal/pkg/app_errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is a signed-in portal session. Tokens never leave the server.
type Session struct {
	ID           string
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type SessionStore interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &RedisSessionStore{
		client: client,
	}
}

func (s *RedisSessionStore) getKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	key := s.getKey(sess.ID)
	// 0 marks a session without a provider expiry
	var expires int64
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.Unix()
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"user_id":       sess.UserID,
			"email":         sess.Email,
			"access_token":  sess.AccessToken,
			"refresh_token": sess.RefreshToken,
			"expires_at":    expires,
		})
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	result, err := s.client.HGetAll(ctx, s.getKey(id)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, apperrors.ErrSessionNotFound
	}

	expires, err := strconv.ParseInt(result["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid expires_at: %v", err)
	}

	sess := &Session{
		ID:           id,
		UserID:       result["user_id"],
		Email:        result["email"],
		AccessToken:  result["access_token"],
		RefreshToken: result["refresh_token"],
	}
	if expires > 0 {
		sess.ExpiresAt = time.Unix(expires, 0)
	}
	return sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.getKey(id)).Err()
}

// MemorySessionStore keeps sessions in process; used when no Redis is configured and in tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, sess *Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
