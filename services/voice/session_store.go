package voice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"slotline/models"
)

const sessionPrefix = "voice:session:"

// Session holds short-lived conversation state so a follow-up like
// "book slot 2" can refer back to the alternatives just offered.
type Session struct {
	UserName     string        `json:"userName,omitempty"`
	UserEmail    string        `json:"userEmail,omitempty"`
	ProviderID   string        `json:"providerId,omitempty"`
	Alternatives []models.Slot `json:"alternatives,omitempty"`
}

// SessionStore persists conversation state between transcript turns.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Set(ctx context.Context, sessionID string, session *Session) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps voice sessions in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	key := sessionPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, sessionID string, session *Session) error {
	key := sessionPrefix + sessionID
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	key := sessionPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}
