//go:build unit || integration

// file: sessionstore/store_test.go
package sessionstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StoreSuite is the behavioural contract every session Store satisfies.
type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T, opts ...Option) Store

	ctx   context.Context
	clock *fakeClock
	store Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &fakeClock{now: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	s.store = s.newStore(s.T(), WithClock(s.clock.Now), WithTTL(time.Hour))
}

func (s *StoreSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StoreSuite) TestCreateThenGet() {
	sess, err := s.store.Create(s.ctx, 42)
	s.Require().NoError(err)
	s.NotEmpty(sess.ID)
	s.Equal(int64(42), sess.UserID)
	s.True(sess.ExpiresAt.Equal(s.clock.Now().Add(time.Hour)))

	got, ok, err := s.store.Get(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(sess.UserID, got.UserID)
}

func (s *StoreSuite) TestIDsAreUnique() {
	a, err := s.store.Create(s.ctx, 1)
	s.Require().NoError(err)
	b, err := s.store.Create(s.ctx, 1)
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)
}

func (s *StoreSuite) TestGetUnknown() {
	_, ok, err := s.store.Get(s.ctx, "does-not-exist")
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestGetAfterTTLIsAbsent() {
	sess, err := s.store.Create(s.ctx, 7)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)

	_, ok, err := s.store.Get(s.ctx, sess.ID)
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestDestroyIsIdempotent() {
	sess, err := s.store.Create(s.ctx, 7)
	s.Require().NoError(err)

	s.NoError(s.store.Destroy(s.ctx, sess.ID))
	s.NoError(s.store.Destroy(s.ctx, sess.ID))

	_, ok, err := s.store.Get(s.ctx, sess.ID)
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestSweepRemovesOnlyExpired() {
	old, err := s.store.Create(s.ctx, 1)
	s.Require().NoError(err)
	s.clock.Advance(30 * time.Minute)
	fresh, err := s.store.Create(s.ctx, 2)
	s.Require().NoError(err)
	s.clock.Advance(45 * time.Minute)

	removed, err := s.store.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, ok, err := s.store.Get(s.ctx, old.ID)
	s.NoError(err)
	s.False(ok)
	_, ok, err = s.store.Get(s.ctx, fresh.ID)
	s.NoError(err)
	s.True(ok)
}
