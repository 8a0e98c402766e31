// File: storage/memory.go
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"car-showcase/models"
)

var _ EntityStore = (*MemStorage)(nil)

// MemStorage keeps every collection in a map keyed by an auto-incrementing id.
// Each collection has its own lock; the username check and insert share one critical section.
type MemStorage struct {
	usersMu    sync.RWMutex
	users      map[int64]models.User
	nextUserID int64

	carsMu    sync.RWMutex
	cars      map[int64]models.Car
	nextCarID int64

	videosMu    sync.RWMutex
	videos      map[int64]models.Video
	nextVideoID int64

	now func() time.Time
}

// MemOption configures a MemStorage.
type MemOption func(*MemStorage)

// WithClock overrides the time source used for upload dates.
func WithClock(now func() time.Time) MemOption {
	return func(s *MemStorage) { s.now = now }
}

func NewMemStorage(opts ...MemOption) *MemStorage {
	s := &MemStorage{
		users:  make(map[int64]models.User),
		cars:   make(map[int64]models.Car),
		videos: make(map[int64]models.Video),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ----------------------- users -----------------------

func (s *MemStorage) GetUser(_ context.Context, id int64) (models.User, bool, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (models.User, bool, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	u, ok := s.findUsername(username)
	return u, ok, nil
}

// findUsername must be called with usersMu held.
func (s *MemStorage) findUsername(username string) (models.User, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *MemStorage) CreateUser(_ context.Context, in models.NewUser) (models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	if _, taken := s.findUsername(in.Username); taken {
		return models.User{}, ErrDuplicateUsername
	}
	s.nextUserID++
	u := in.Build(s.nextUserID)
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStorage) ListUsers(_ context.Context) ([]models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStorage) UpdateUserPassword(_ context.Context, id int64, password string) (bool, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.Password = password
	s.users[id] = u
	return true, nil
}

// ----------------------- cars -----------------------

func (s *MemStorage) GetCars(_ context.Context) ([]models.Car, error) {
	s.carsMu.RLock()
	defer s.carsMu.RUnlock()
	out := make([]models.Car, 0, len(s.cars))
	for _, c := range s.cars {
		out = append(out, cloneCar(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStorage) GetCar(_ context.Context, id int64) (models.Car, bool, error) {
	s.carsMu.RLock()
	defer s.carsMu.RUnlock()
	c, ok := s.cars[id]
	return cloneCar(c), ok, nil
}

func (s *MemStorage) CreateCar(_ context.Context, in models.NewCar) (models.Car, error) {
	s.carsMu.Lock()
	defer s.carsMu.Unlock()
	s.nextCarID++
	c := cloneCar(in.Build(s.nextCarID))
	s.cars[c.ID] = c
	return cloneCar(c), nil
}

func (s *MemStorage) UpdateCar(_ context.Context, id int64, patch models.CarPatch) (models.Car, bool, error) {
	s.carsMu.Lock()
	defer s.carsMu.Unlock()
	c, ok := s.cars[id]
	if !ok {
		return models.Car{}, false, nil
	}
	c = cloneCar(patch.Apply(c))
	s.cars[id] = c
	return cloneCar(c), true, nil
}

func (s *MemStorage) DeleteCar(_ context.Context, id int64) (bool, error) {
	s.carsMu.Lock()
	defer s.carsMu.Unlock()
	if _, ok := s.cars[id]; !ok {
		return false, nil
	}
	delete(s.cars, id)
	return true, nil
}

// cloneCar detaches the tag pointer so callers cannot mutate stored records.
func cloneCar(c models.Car) models.Car {
	if c.Tag != nil {
		tag := *c.Tag
		c.Tag = &tag
	}
	return c
}

// ----------------------- videos -----------------------

func (s *MemStorage) GetVideos(_ context.Context) ([]models.Video, error) {
	return s.collectVideos(func(models.Video) bool { return true }), nil
}

func (s *MemStorage) GetFeaturedVideos(_ context.Context) ([]models.Video, error) {
	return s.collectVideos(func(v models.Video) bool { return v.Featured }), nil
}

func (s *MemStorage) collectVideos(keep func(models.Video) bool) []models.Video {
	s.videosMu.RLock()
	defer s.videosMu.RUnlock()
	out := make([]models.Video, 0, len(s.videos))
	for _, v := range s.videos {
		if keep(v) {
			out = append(out, v)
		}
	}
	sortVideos(out)
	return out
}

func (s *MemStorage) GetVideo(_ context.Context, id int64) (models.Video, bool, error) {
	s.videosMu.RLock()
	defer s.videosMu.RUnlock()
	v, ok := s.videos[id]
	return v, ok, nil
}

func (s *MemStorage) CreateVideo(_ context.Context, in models.NewVideo) (models.Video, error) {
	s.videosMu.Lock()
	defer s.videosMu.Unlock()
	s.nextVideoID++
	v := in.Build(s.nextVideoID, uploadTime(s.now))
	s.videos[v.ID] = v
	return v, nil
}

func (s *MemStorage) UpdateVideo(_ context.Context, id int64, patch models.VideoPatch) (models.Video, bool, error) {
	s.videosMu.Lock()
	defer s.videosMu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return models.Video{}, false, nil
	}
	v = patch.Apply(v)
	s.videos[id] = v
	return v, true, nil
}

func (s *MemStorage) DeleteVideo(_ context.Context, id int64) (bool, error) {
	s.videosMu.Lock()
	defer s.videosMu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return false, nil
	}
	delete(s.videos, id)
	return true, nil
}

func (s *MemStorage) SetVideoFeatured(ctx context.Context, id int64, featured bool) (models.Video, bool, error) {
	return s.UpdateVideo(ctx, id, models.VideoPatch{Featured: &featured})
}

func (s *MemStorage) Ping(context.Context) error { return nil }

func (s *MemStorage) Close() error { return nil }

// uploadTime is UTC at microsecond precision so both stores round-trip the same value.
func uploadTime(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}
