package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, ttl), mr
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, time.Minute)

	sid, err := s.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	user, err := s.Lookup(ctx, sid)
	if err != nil || user != "alice" {
		t.Fatalf("lookup: %q %v", user, err)
	}
	if _, err := s.Lookup(ctx, "missing"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	ttl := time.Minute
	s, mr := newStore(t, ttl)

	sid, err := s.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := mr.TTL(keyPrefix + sid); got != ttl {
		t.Fatalf("expected ttl %v, got %v", ttl, got)
	}

	mr.FastForward(ttl + time.Second)
	if _, err := s.Lookup(ctx, sid); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestLookupEmptyUser(t *testing.T) {
	s, mr := newStore(t, time.Minute)
	mr.Set(keyPrefix+"blank", "")
	if _, err := s.Lookup(context.Background(), "blank"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestLookupServerDown(t *testing.T) {
	s, mr := newStore(t, time.Minute)
	mr.Close()
	_, err := s.Lookup(context.Background(), "any")
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}
