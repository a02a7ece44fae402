package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	mr := miniredis.RunT(t)
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestSaveAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	reg := &PendingRegistration{
		Fullname:  "Alice Citizen",
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		Code:      "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, reg))

	found, err := store.Find(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.Username, found.Username)
	assert.Equal(t, reg.Code, found.Code)
	assert.False(t, found.Expired())
}

func TestFindMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Find(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &PendingRegistration{Email: "alice@example.com", Code: "111111"}
	second := &PendingRegistration{Email: "alice@example.com", Code: "222222"}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	found, err := store.Find(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", found.Code)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	reg := &PendingRegistration{Email: "alice@example.com", Code: "123456"}
	require.NoError(t, store.Save(ctx, reg))
	require.NoError(t, store.Delete(ctx, "alice@example.com"))

	_, err := store.Find(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Delete(context.Background(), "ghost@example.com"))
}

func TestExpired(t *testing.T) {
	past := PendingRegistration{ExpiresAt: time.Now().Add(-time.Second)}
	future := PendingRegistration{ExpiresAt: time.Now().Add(time.Minute)}

	assert.True(t, past.Expired())
	assert.False(t, future.Expired())
}
