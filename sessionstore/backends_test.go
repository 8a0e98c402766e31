//go:build unit

// file: sessionstore/backends_test.go
package sessionstore

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{
		newStore: func(_ *testing.T, opts ...Option) Store { return NewMemory(opts...) },
	})
}

func TestSQLStore(t *testing.T) {
	suite.Run(t, &StoreSuite{
		newStore: func(t *testing.T, opts ...Option) Store {
			db, err := sql.Open("sqlite3", ":memory:")
			require.NoError(t, err)
			db.SetMaxOpenConns(1)
			t.Cleanup(func() { _ = db.Close() })

			store, err := NewSQL(context.Background(), db, "sqlite3", opts...)
			require.NoError(t, err)
			return store
		},
	})
}

func TestNewSQL_UnknownDriver(t *testing.T) {
	_, err := NewSQL(context.Background(), nil, "oracle")
	require.Error(t, err)
}

func TestMemory_CapEvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	m := NewMemory(WithClock(clock.Now), WithTTL(time.Hour), WithMaxSessions(2))

	expired, err := m.Create(ctx, 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)
	live, err := m.Create(ctx, 2)
	require.NoError(t, err)

	_, err = m.Create(ctx, 3)
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, expired.ID)
	require.False(t, ok)
	_, ok, _ = m.Get(ctx, live.ID)
	require.True(t, ok)
}

func TestMemory_CapEvictsSoonestExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	n := 0
	ids := func() string { n++; return fmt.Sprintf("s%d", n) }
	m := NewMemory(WithClock(clock.Now), WithTTL(time.Hour), WithMaxSessions(2), WithIDGenerator(ids))

	_, err := m.Create(ctx, 1)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = m.Create(ctx, 2)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = m.Create(ctx, 3)
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "s1")
	require.False(t, ok, "oldest session is evicted")
	_, ok, _ = m.Get(ctx, "s3")
	require.True(t, ok)
}

func TestMemory_DefaultTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))

	sess, err := m.Create(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, now.Add(7*24*time.Hour), sess.ExpiresAt)
}
