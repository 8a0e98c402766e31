//go:build unit || integration

// file: storage/contract_test.go
package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"car-showcase/apperr"
	"car-showcase/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
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

// EntityStoreSuite runs the same behavioural contract against every EntityStore.
type EntityStoreSuite struct {
	suite.Suite
	newStore func(t *testing.T, now func() time.Time) EntityStore

	ctx   context.Context
	clock *fakeClock
	store EntityStore
}

func (s *EntityStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = newFakeClock()
	s.store = s.newStore(s.T(), s.clock.Now)
}

func (s *EntityStoreSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func sampleCar(name string) models.NewCar {
	return models.NewCar{
		Name: name, Year: 2023, Speed: "300 km/h", Price: "$100,000",
		Description: "fast", ImageURL: "https://example.com/" + name + ".jpg",
	}
}

func sampleVideo(title string, featured *bool) models.NewVideo {
	return models.NewVideo{
		Title: title, Description: "clip", VideoURL: "https://example.com/v.mp4",
		ThumbnailURL: "https://example.com/t.jpg", Duration: "01:00", Featured: featured,
	}
}

// ----------------------- users -----------------------

func (s *EntityStoreSuite) TestCreateUser_DefaultsIsAdminFalse() {
	u, err := s.store.CreateUser(s.ctx, models.NewUser{Username: "bob", Password: "x"})
	s.Require().NoError(err)
	s.False(u.IsAdmin)

	got, ok, err := s.store.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(u, got)

	byName, ok, err := s.store.GetUserByUsername(s.ctx, "bob")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(u.ID, byName.ID)
}

func (s *EntityStoreSuite) TestGetUser_Absent() {
	_, ok, err := s.store.GetUser(s.ctx, 999)
	s.NoError(err)
	s.False(ok)

	_, ok, err = s.store.GetUserByUsername(s.ctx, "ghost")
	s.NoError(err)
	s.False(ok)
}

func (s *EntityStoreSuite) TestCreateUser_DuplicateUsername() {
	_, err := s.store.CreateUser(s.ctx, models.NewUser{Username: "admin", Password: "a"})
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, models.NewUser{Username: "admin", Password: "b"})
	s.ErrorIs(err, ErrDuplicateUsername)
	s.True(errors.Is(err, apperr.ErrConflict))

	users, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *EntityStoreSuite) TestCreateUser_ConcurrentSameUsername() {
	const workers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.CreateUser(s.ctx, models.NewUser{Username: "race", Password: "p"})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrDuplicateUsername):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(workers-1), conflicts.Load())
}

func (s *EntityStoreSuite) TestUpdateUserPassword() {
	u, err := s.store.CreateUser(s.ctx, models.NewUser{Username: "legacy", Password: "plain"})
	s.Require().NoError(err)

	ok, err := s.store.UpdateUserPassword(s.ctx, u.ID, "digest.salt")
	s.Require().NoError(err)
	s.True(ok)

	got, _, err := s.store.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("digest.salt", got.Password)

	ok, err = s.store.UpdateUserPassword(s.ctx, 999, "x")
	s.NoError(err)
	s.False(ok)
}

// ----------------------- cars -----------------------

func (s *EntityStoreSuite) TestCarIDsStrictlyIncrease() {
	var last int64
	for _, name := range []string{"a", "b", "c"} {
		c, err := s.store.CreateCar(s.ctx, sampleCar(name))
		s.Require().NoError(err)
		s.Greater(c.ID, last)
		last = c.ID
	}

	deleted, err := s.store.DeleteCar(s.ctx, last)
	s.Require().NoError(err)
	s.True(deleted)

	c, err := s.store.CreateCar(s.ctx, sampleCar("d"))
	s.Require().NoError(err)
	s.Greater(c.ID, last, "ids are never reused")
}

func (s *EntityStoreSuite) TestCreateCar_OmittedTagIsNull() {
	c, err := s.store.CreateCar(s.ctx, sampleCar("plain"))
	s.Require().NoError(err)
	s.Nil(c.Tag)

	got, ok, err := s.store.GetCar(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Nil(got.Tag)
}

func (s *EntityStoreSuite) TestGetCars_InsertionOrder() {
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.store.CreateCar(s.ctx, sampleCar(name))
		s.Require().NoError(err)
	}
	cars, err := s.store.GetCars(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cars, 3)
	s.Equal("first", cars[0].Name)
	s.Equal("third", cars[2].Name)
}

func (s *EntityStoreSuite) TestUpdateCar_ShallowMerge() {
	in := sampleCar("gt")
	in.Tag = models.StringPtr("New")
	c, err := s.store.CreateCar(s.ctx, in)
	s.Require().NoError(err)

	updated, ok, err := s.store.UpdateCar(s.ctx, c.ID, models.CarPatch{Price: models.StringPtr("$150,000")})
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("$150,000", updated.Price)
	s.Equal("gt", updated.Name)
	s.Require().NotNil(updated.Tag)
	s.Equal("New", *updated.Tag)

	cleared, ok, err := s.store.UpdateCar(s.ctx, c.ID, models.CarPatch{Tag: models.SetNull()})
	s.Require().NoError(err)
	s.True(ok)
	s.Nil(cleared.Tag)
	s.Equal("$150,000", cleared.Price)

	unchanged, ok, err := s.store.UpdateCar(s.ctx, c.ID, models.CarPatch{})
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(cleared, unchanged)
}

func (s *EntityStoreSuite) TestUpdateCar_UnknownIDDoesNotCreate() {
	_, ok, err := s.store.UpdateCar(s.ctx, 42, models.CarPatch{Name: models.StringPtr("ghost")})
	s.Require().NoError(err)
	s.False(ok)

	cars, err := s.store.GetCars(s.ctx)
	s.Require().NoError(err)
	s.Empty(cars)
}

func (s *EntityStoreSuite) TestDeleteCar_Twice() {
	c, err := s.store.CreateCar(s.ctx, sampleCar("once"))
	s.Require().NoError(err)

	first, err := s.store.DeleteCar(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(first)

	second, err := s.store.DeleteCar(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(second)

	_, ok, err := s.store.GetCar(s.ctx, c.ID)
	s.NoError(err)
	s.False(ok)
}

// ----------------------- videos -----------------------

func (s *EntityStoreSuite) TestCreateVideo_DefaultsFeaturedFalse() {
	v, err := s.store.CreateVideo(s.ctx, sampleVideo("plain", nil))
	s.Require().NoError(err)
	s.False(v.Featured)
	s.True(v.UploadDate.Equal(s.clock.Now()))
}

func (s *EntityStoreSuite) TestVideoRoundTrip() {
	in := sampleVideo("roundtrip", models.BoolPtr(true))
	created, err := s.store.CreateVideo(s.ctx, in)
	s.Require().NoError(err)

	got, ok, err := s.store.GetVideo(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().True(ok)

	want := in.Build(created.ID, created.UploadDate)
	s.True(want.UploadDate.Equal(got.UploadDate))
	want.UploadDate, got.UploadDate = time.Time{}, time.Time{}
	s.Equal(want, got)
}

func (s *EntityStoreSuite) TestGetVideos_NewestFirst() {
	old, err := s.store.CreateVideo(s.ctx, sampleVideo("old", nil))
	s.Require().NoError(err)
	s.clock.Advance(time.Hour)
	tieA, err := s.store.CreateVideo(s.ctx, sampleVideo("tie-a", nil))
	s.Require().NoError(err)
	tieB, err := s.store.CreateVideo(s.ctx, sampleVideo("tie-b", nil))
	s.Require().NoError(err)

	videos, err := s.store.GetVideos(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(videos, 3)
	s.Equal([]int64{tieB.ID, tieA.ID, old.ID}, []int64{videos[0].ID, videos[1].ID, videos[2].ID})
}

func (s *EntityStoreSuite) TestGetFeaturedVideos_Subset() {
	a, err := s.store.CreateVideo(s.ctx, sampleVideo("a", models.BoolPtr(true)))
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.store.CreateVideo(s.ctx, sampleVideo("b", models.BoolPtr(false)))
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	c, err := s.store.CreateVideo(s.ctx, sampleVideo("c", models.BoolPtr(true)))
	s.Require().NoError(err)

	all, err := s.store.GetVideos(s.ctx)
	s.Require().NoError(err)
	featured, err := s.store.GetFeaturedVideos(s.ctx)
	s.Require().NoError(err)

	var want []int64
	for _, v := range all {
		if v.Featured {
			want = append(want, v.ID)
		}
	}
	var got []int64
	for _, v := range featured {
		s.True(v.Featured)
		got = append(got, v.ID)
	}
	s.Equal(want, got)
	s.Equal([]int64{c.ID, a.ID}, got)
}

func (s *EntityStoreSuite) TestUpdateVideo_KeepsUploadDate() {
	v, err := s.store.CreateVideo(s.ctx, sampleVideo("clip", nil))
	s.Require().NoError(err)
	s.clock.Advance(24 * time.Hour)

	updated, ok, err := s.store.UpdateVideo(s.ctx, v.ID, models.VideoPatch{Title: models.StringPtr("renamed")})
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("renamed", updated.Title)
	s.True(v.UploadDate.Equal(updated.UploadDate))

	_, ok, err = s.store.UpdateVideo(s.ctx, 999, models.VideoPatch{Title: models.StringPtr("x")})
	s.NoError(err)
	s.False(ok)
}

func (s *EntityStoreSuite) TestSetVideoFeatured() {
	v, err := s.store.CreateVideo(s.ctx, sampleVideo("clip", nil))
	s.Require().NoError(err)

	updated, ok, err := s.store.SetVideoFeatured(s.ctx, v.ID, true)
	s.Require().NoError(err)
	s.True(ok)
	s.True(updated.Featured)
	s.Equal(v.Title, updated.Title)

	_, ok, err = s.store.SetVideoFeatured(s.ctx, 999, true)
	s.NoError(err)
	s.False(ok)
}

func (s *EntityStoreSuite) TestDeleteVideo_Twice() {
	v, err := s.store.CreateVideo(s.ctx, sampleVideo("gone", nil))
	s.Require().NoError(err)

	first, err := s.store.DeleteVideo(s.ctx, v.ID)
	s.Require().NoError(err)
	s.True(first)
	second, err := s.store.DeleteVideo(s.ctx, v.ID)
	s.Require().NoError(err)
	s.False(second)
}

// ----------------------- seed -----------------------

func (s *EntityStoreSuite) TestSeed_OnlyIntoEmptyStore() {
	seeded, err := Seed(s.ctx, s.store, "admin", "digest.salt")
	s.Require().NoError(err)
	s.True(seeded)

	admin, ok, err := s.store.GetUserByUsername(s.ctx, "admin")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.True(admin.IsAdmin)

	cars, err := s.store.GetCars(s.ctx)
	s.Require().NoError(err)
	s.Len(cars, len(SeedCars))
	s.Nil(cars[1].Tag)

	featured, err := s.store.GetFeaturedVideos(s.ctx)
	s.Require().NoError(err)
	s.Len(featured, len(SeedVideos))

	again, err := Seed(s.ctx, s.store, "admin", "digest.salt")
	s.Require().NoError(err)
	s.False(again)
	cars, err = s.store.GetCars(s.ctx)
	s.Require().NoError(err)
	s.Len(cars, len(SeedCars))
}

func (s *EntityStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
