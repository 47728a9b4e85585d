package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newTestService(t *testing.T) Service {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Address: addr})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client)
}

func TestConnect_EmptyAddress(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.Error(t, err)
}

func TestService_GetOrSet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	key := "eventdesk:test:" + uuid.NewString()
	t.Cleanup(func() { _ = svc.Delete(ctx, key) })

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return profile{Name: "Ada", Email: "ada@example.com"}, nil
	}

	var first, second profile
	require.NoError(t, svc.GetOrSet(ctx, key, time.Minute, fetch, &first))
	require.NoError(t, svc.GetOrSet(ctx, key, time.Minute, fetch, &second))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "ada@example.com", second.Email)
}

func TestService_GetOrSetFetcherError(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	key := "eventdesk:test:" + uuid.NewString()

	boom := errors.New("boom")
	var dest profile
	err := svc.GetOrSet(ctx, key, time.Minute, func() (interface{}, error) { return nil, boom }, &dest)
	assert.ErrorIs(t, err, boom)
	assert.False(t, svc.Exists(ctx, key))
}

func TestService_GetMiss(t *testing.T) {
	svc := newTestService(t)

	var dest profile
	err := svc.Get(context.Background(), "eventdesk:test:"+uuid.NewString(), &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestService_Ping(t *testing.T) {
	svc := newTestService(t)
	assert.NoError(t, svc.Ping(context.Background()))
}
