package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrSessionNotFound is returned when no session exists for the phone.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists per-phone conversation sessions. The idle
// timeout is enforced here via key TTL, not by the state machine.
type SessionRepository interface {
	Get(ctx context.Context, phone string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, phone string) error
}

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository builds a Redis-backed session store with the given
// idle TTL.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &sessionRepository{client: client, ttl: ttl}
}

func sessionKey(phone string) string {
	return fmt.Sprintf("session:%s", phone)
}

func (r *sessionRepository) Get(ctx context.Context, phone string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(phone)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt blob is unrecoverable; treat it as absent so the
		// conversation restarts from idle.
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.Phone), data, r.ttl).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, phone string) error {
	return r.client.Del(ctx, sessionKey(phone)).Err()
}
