// Package session keeps staff login sessions in Redis.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// ErrNoSession indicates the session id is unknown or expired.
var ErrNoSession = errors.New("session not found")

// Store creates and resolves sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a Store whose sessions live for ttl.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// TTL reports how long new sessions last.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create starts a session for user and returns its id.
func (s *Store) Create(ctx context.Context, user string) (string, error) {
	sid := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+sid, user, s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Lookup returns the user owning the session.
func (s *Store) Lookup(ctx context.Context, sid string) (string, error) {
	user, err := s.client.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) || (err == nil && user == "") {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return user, nil
}
