// Package services: services/catalog_service.go
package services

import (
	"context"

	"go.uber.org/zap"

	"car-showcase/apperr"
	"car-showcase/logger"
	"car-showcase/metrics"
	"car-showcase/models"
	"car-showcase/storage"
)

// user-facing catalog messages
const (
	MsgCarNotFound   = "Car not found"
	MsgVideoNotFound = "Video not found"
)

// Publisher receives catalog events after each successful mutation.
type Publisher interface {
	Publish(event models.CatalogEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.CatalogEvent) {}

type CatalogServiceInterface interface {
	ListCars(ctx context.Context) ([]models.Car, error)
	GetCar(ctx context.Context, id int64) (models.Car, error)
	CreateCar(ctx context.Context, in models.NewCar) (models.Car, error)
	UpdateCar(ctx context.Context, id int64, patch models.CarPatch) (models.Car, error)
	DeleteCar(ctx context.Context, id int64) error

	ListVideos(ctx context.Context) ([]models.Video, error)
	ListFeaturedVideos(ctx context.Context) ([]models.Video, error)
	GetVideo(ctx context.Context, id int64) (models.Video, error)
	CreateVideo(ctx context.Context, in models.NewVideo) (models.Video, error)
	UpdateVideo(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, error)
	DeleteVideo(ctx context.Context, id int64) error
	SetVideoFeatured(ctx context.Context, id int64, featured bool) (models.Video, error)

	Ping(ctx context.Context) error
}

var _ CatalogServiceInterface = (*CatalogService)(nil)

// CatalogService turns store absence into NotFound errors and announces every change.
type CatalogService struct {
	store     storage.EntityStore
	publisher Publisher
	metrics   metrics.Recorder
}

func NewCatalogService(store storage.EntityStore, pub Publisher, rec metrics.Recorder) *CatalogService {
	if pub == nil {
		pub = nopPublisher{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &CatalogService{store: store, publisher: pub, metrics: rec}
}

func (s *CatalogService) changed(entity, action string, id int64, data interface{}) {
	s.metrics.CatalogChange(entity, action)
	s.publisher.Publish(models.CatalogEvent{Action: action, Entity: entity, ID: id, Data: data})
	logger.Info("catalog changed", zap.String("entity", entity), zap.String("action", action), zap.Int64("id", id))
}

// ----------------------- cars -----------------------

func (s *CatalogService) ListCars(ctx context.Context) ([]models.Car, error) {
	cars, err := s.store.GetCars(ctx)
	if err != nil {
		return nil, apperr.Internal("list cars", err)
	}
	return cars, nil
}

func (s *CatalogService) GetCar(ctx context.Context, id int64) (models.Car, error) {
	car, ok, err := s.store.GetCar(ctx, id)
	if err != nil {
		return models.Car{}, apperr.Internal("get car", err)
	}
	if !ok {
		return models.Car{}, apperr.NotFound(MsgCarNotFound)
	}
	return car, nil
}

func (s *CatalogService) CreateCar(ctx context.Context, in models.NewCar) (models.Car, error) {
	car, err := s.store.CreateCar(ctx, in)
	if err != nil {
		return models.Car{}, apperr.Internal("create car", err)
	}
	s.changed(models.EntityCar, models.ActionCreated, car.ID, car)
	return car, nil
}

func (s *CatalogService) UpdateCar(ctx context.Context, id int64, patch models.CarPatch) (models.Car, error) {
	car, ok, err := s.store.UpdateCar(ctx, id, patch)
	if err != nil {
		return models.Car{}, apperr.Internal("update car", err)
	}
	if !ok {
		return models.Car{}, apperr.NotFound(MsgCarNotFound)
	}
	s.changed(models.EntityCar, models.ActionUpdated, car.ID, car)
	return car, nil
}

func (s *CatalogService) DeleteCar(ctx context.Context, id int64) error {
	ok, err := s.store.DeleteCar(ctx, id)
	if err != nil {
		return apperr.Internal("delete car", err)
	}
	if !ok {
		return apperr.NotFound(MsgCarNotFound)
	}
	s.changed(models.EntityCar, models.ActionDeleted, id, nil)
	return nil
}

// ----------------------- videos -----------------------

func (s *CatalogService) ListVideos(ctx context.Context) ([]models.Video, error) {
	videos, err := s.store.GetVideos(ctx)
	if err != nil {
		return nil, apperr.Internal("list videos", err)
	}
	return videos, nil
}

func (s *CatalogService) ListFeaturedVideos(ctx context.Context) ([]models.Video, error) {
	videos, err := s.store.GetFeaturedVideos(ctx)
	if err != nil {
		return nil, apperr.Internal("list featured videos", err)
	}
	return videos, nil
}

func (s *CatalogService) GetVideo(ctx context.Context, id int64) (models.Video, error) {
	video, ok, err := s.store.GetVideo(ctx, id)
	if err != nil {
		return models.Video{}, apperr.Internal("get video", err)
	}
	if !ok {
		return models.Video{}, apperr.NotFound(MsgVideoNotFound)
	}
	return video, nil
}

func (s *CatalogService) CreateVideo(ctx context.Context, in models.NewVideo) (models.Video, error) {
	video, err := s.store.CreateVideo(ctx, in)
	if err != nil {
		return models.Video{}, apperr.Internal("create video", err)
	}
	s.changed(models.EntityVideo, models.ActionCreated, video.ID, video)
	return video, nil
}

func (s *CatalogService) UpdateVideo(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, error) {
	video, ok, err := s.store.UpdateVideo(ctx, id, patch)
	if err != nil {
		return models.Video{}, apperr.Internal("update video", err)
	}
	if !ok {
		return models.Video{}, apperr.NotFound(MsgVideoNotFound)
	}
	s.changed(models.EntityVideo, models.ActionUpdated, video.ID, video)
	return video, nil
}

func (s *CatalogService) DeleteVideo(ctx context.Context, id int64) error {
	ok, err := s.store.DeleteVideo(ctx, id)
	if err != nil {
		return apperr.Internal("delete video", err)
	}
	if !ok {
		return apperr.NotFound(MsgVideoNotFound)
	}
	s.changed(models.EntityVideo, models.ActionDeleted, id, nil)
	return nil
}

func (s *CatalogService) SetVideoFeatured(ctx context.Context, id int64, featured bool) (models.Video, error) {
	video, ok, err := s.store.SetVideoFeatured(ctx, id, featured)
	if err != nil {
		return models.Video{}, apperr.Internal("set video featured", err)
	}
	if !ok {
		return models.Video{}, apperr.NotFound(MsgVideoNotFound)
	}
	s.changed(models.EntityVideo, models.ActionFeatured, video.ID, video)
	return video, nil
}

// Ping checks that the backing store is reachable.
func (s *CatalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
