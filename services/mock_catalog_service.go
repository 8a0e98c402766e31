package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"car-showcase/models"
)

// ensure MockCatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*MockCatalogService)(nil)

// MockCatalogService is a testify mock for controller tests.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCars(ctx context.Context) ([]models.Car, error) {
	args := m.Called(ctx)
	cars, _ := args.Get(0).([]models.Car)
	return cars, args.Error(1)
}

func (m *MockCatalogService) GetCar(ctx context.Context, id int64) (models.Car, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Car), args.Error(1)
}

func (m *MockCatalogService) CreateCar(ctx context.Context, in models.NewCar) (models.Car, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Car), args.Error(1)
}

func (m *MockCatalogService) UpdateCar(ctx context.Context, id int64, patch models.CarPatch) (models.Car, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Car), args.Error(1)
}

func (m *MockCatalogService) DeleteCar(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListVideos(ctx context.Context) ([]models.Video, error) {
	args := m.Called(ctx)
	videos, _ := args.Get(0).([]models.Video)
	return videos, args.Error(1)
}

func (m *MockCatalogService) ListFeaturedVideos(ctx context.Context) ([]models.Video, error) {
	args := m.Called(ctx)
	videos, _ := args.Get(0).([]models.Video)
	return videos, args.Error(1)
}

func (m *MockCatalogService) GetVideo(ctx context.Context, id int64) (models.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockCatalogService) CreateVideo(ctx context.Context, in models.NewVideo) (models.Video, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockCatalogService) UpdateVideo(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockCatalogService) DeleteVideo(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) SetVideoFeatured(ctx context.Context, id int64, featured bool) (models.Video, error) {
	args := m.Called(ctx, id, featured)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockCatalogService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
