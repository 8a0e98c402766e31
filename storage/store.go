// Package storage holds users, cars and videos behind one EntityStore interface
// with an in-memory and a SQL implementation.
// File: storage/store.go
package storage

import (
	"context"
	"sort"

	"car-showcase/apperr"
	"car-showcase/models"
)

// ErrDuplicateUsername is returned by CreateUser when the username is taken.
var ErrDuplicateUsername = apperr.Conflict("Username already exists")

// EntityStore is the CRUD contract shared by MemStorage and SQLStorage.
// Lookups report absence through the bool result; errors mean the store itself failed.
type EntityStore interface {
	GetUser(ctx context.Context, id int64) (models.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, bool, error)
	CreateUser(ctx context.Context, in models.NewUser) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserPassword(ctx context.Context, id int64, password string) (bool, error)

	GetCars(ctx context.Context) ([]models.Car, error)
	GetCar(ctx context.Context, id int64) (models.Car, bool, error)
	CreateCar(ctx context.Context, in models.NewCar) (models.Car, error)
	UpdateCar(ctx context.Context, id int64, patch models.CarPatch) (models.Car, bool, error)
	DeleteCar(ctx context.Context, id int64) (bool, error)

	GetVideos(ctx context.Context) ([]models.Video, error)
	GetVideo(ctx context.Context, id int64) (models.Video, bool, error)
	GetFeaturedVideos(ctx context.Context) ([]models.Video, error)
	CreateVideo(ctx context.Context, in models.NewVideo) (models.Video, error)
	UpdateVideo(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, bool, error)
	DeleteVideo(ctx context.Context, id int64) (bool, error)
	SetVideoFeatured(ctx context.Context, id int64, featured bool) (models.Video, bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// sortVideos orders newest first; equal upload times fall back to the higher id.
func sortVideos(videos []models.Video) {
	sort.Slice(videos, func(i, j int) bool {
		if !videos[i].UploadDate.Equal(videos[j].UploadDate) {
			return videos[i].UploadDate.After(videos[j].UploadDate)
		}
		return videos[i].ID > videos[j].ID
	})
}
