package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, found, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	saved := Draft{ServiceID: 2, Date: "2024-06-10", TimeSlot: "10:30", ClientName: "Anna", Step: StepDetails}
	require.NoError(t, store.Save(ctx, "k1", saved))

	got, found, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, saved, got)
}

func TestRedisStoreExpiresDrafts(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k1", NewDraft()))
	mr.FastForward(2 * time.Hour)

	_, found, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(draftKeyPrefix+"k1", "{not json"))

	_, _, err := store.Load(ctx, "k1")
	require.ErrorIs(t, err, ErrCorruptDraft)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k1", NewDraft()))
	require.NoError(t, store.Delete(ctx, "k1"))

	_, found, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreMatchesRedisBehavior(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	saved := Draft{ServiceID: 5, Date: "2024-06-12", Step: StepTime}
	require.NoError(t, store.Save(ctx, "k1", saved))

	got, found, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, saved, got)

	store.drafts["bad"] = []byte("{not json")
	_, _, err = store.Load(ctx, "bad")
	require.ErrorIs(t, err, ErrCorruptDraft)

	require.NoError(t, store.Delete(ctx, "k1"))
	_, found, err = store.Load(ctx, "k1")
	require.NoError(t, err)
	require.False(t, found)
}
