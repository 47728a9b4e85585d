package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LatestTicketWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Begin(ctx, "s1")
	require.NoError(t, err)
	second, err := store.Begin(ctx, "s1")
	require.NoError(t, err)
	assert.Greater(t, second, first)

	ok, err := store.Commit(ctx, "s1", second, []remote.Event{{ID: "new"}})
	require.NoError(t, err)
	assert.True(t, ok)

	// the earlier request completes last and must not overwrite
	ok, err = store.Commit(ctx, "s1", first, []remote.Event{{ID: "old"}})
	require.NoError(t, err)
	assert.False(t, ok)

	st, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, st.Events, 1)
	assert.Equal(t, "new", st.Events[0].ID)
	assert.Equal(t, second, st.Ticket)
	assert.False(t, st.RefreshedAt.IsZero())
}

func TestMemoryStore_CommitWithoutBegin(t *testing.T) {
	store := NewMemoryStore()

	ok, err := store.Commit(context.Background(), "s1", 1, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_SaveDraftKeepsActive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	active := filters.Active{SearchTerm: filters.Term("jazz"), MinPrice: "10"}
	require.NoError(t, store.SaveFilters(ctx, "s1", filters.Input{SearchTerm: filters.Term("jazz"), MinPrice: "10"}, active))
	require.NoError(t, store.SaveDraft(ctx, "s1", filters.Input{SearchTerm: filters.Term("rock")}))

	st, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "rock", st.Draft.Term())
	assert.Equal(t, "jazz", st.Active.Term())
	assert.Equal(t, "10", st.Active.MinPrice)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ticket, err := store.Begin(ctx, "a")
	require.NoError(t, err)
	_, err = store.Begin(ctx, "b")
	require.NoError(t, err)

	ok, err := store.Commit(ctx, "a", ticket, []remote.Event{{ID: "1"}})
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, st.Events)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ticket, _ := store.Begin(ctx, "s1")
	_, _ = store.Commit(ctx, "s1", ticket, []remote.Event{{ID: "1"}})
	require.NoError(t, store.Clear(ctx, "s1"))

	st, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, st.Events)
	assert.Zero(t, st.Ticket)
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = store.Begin(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryStore_ConcurrentBegin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Begin(ctx, "s1")
		}()
	}
	wg.Wait()

	last, err := store.Begin(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, uint64(51), last)
}

func TestMemoryStore_SaveFiltersSupersedesTickets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ticket, err := store.Begin(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, store.SaveFilters(ctx, "s1", filters.Input{MinPrice: "5"}, filters.Active{MinPrice: "5"}))

	ok, err := store.Commit(ctx, "s1", ticket, []remote.Event{{ID: "old"}})
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := store.Begin(ctx, "s1")
	require.NoError(t, err)
	assert.Greater(t, next, ticket+1)
}

func TestMemoryStore_EvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	store.SetIdleTTL(time.Hour)

	ticket, err := store.Begin(ctx, "idle")
	require.NoError(t, err)
	_, err = store.Commit(ctx, "idle", ticket, []remote.Event{{ID: "1"}})
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, err = store.Begin(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	now = now.Add(45 * time.Minute)
	st, err := store.Load(ctx, "idle")
	require.NoError(t, err)
	assert.Empty(t, st.Events, "idle session reads as empty")

	require.NoError(t, store.SaveDraft(ctx, "active", filters.Input{MinPrice: "5"}))
	assert.Equal(t, 1, store.Len())

	st, err = store.Load(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, "5", st.Draft.MinPrice)
}
