// Package otp stores pending OTP-gated registrations in Redis, keyed by
// email. Records are single use: verification deletes them.
package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no pending registration exists for an email.
var ErrNotFound = errors.New("no pending registration")

// PendingRegistration holds the registration payload while it waits for OTP
// verification. ExpiresAt is authoritative: the Redis TTL is only
// housekeeping, long enough that an expired record still yields a distinct
// "expired" error instead of looking like a missing one.
type PendingRegistration struct {
	Fullname  string    `json:"fullname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code's validity window has passed.
func (p *PendingRegistration) Expired() bool {
	return time.Now().After(p.ExpiresAt)
}

// Store is a Redis-backed pending-registration store.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates a Store on an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		prefix: "otp:pending:",
		ttl:    24 * time.Hour,
	}
}

func (s *Store) key(email string) string {
	return s.prefix + email
}

// Save upserts the pending registration for its email, replacing any prior
// code.
func (s *Store) Save(ctx context.Context, reg *PendingRegistration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	if err := s.client.Set(ctx, s.key(reg.Email), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pending registration: %w", err)
	}
	return nil
}

// Find returns the pending registration for an email, or ErrNotFound.
func (s *Store) Find(ctx context.Context, email string) (*PendingRegistration, error) {
	data, err := s.client.Get(ctx, s.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pending registration: %w", err)
	}

	var reg PendingRegistration
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode pending registration: %w", err)
	}
	return &reg, nil
}

// Delete removes the pending registration for an email.
func (s *Store) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, s.key(email)).Err()
}
