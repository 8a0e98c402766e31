// File: storage/seed.go
package storage

import (
	"context"
	"fmt"

	"car-showcase/models"
)

// SeedCars is the starter catalog loaded into an empty store.
var SeedCars = []models.NewCar{
	{
		Name:        "Mercedes AMG GT",
		Year:        2023,
		Speed:       "315 km/h",
		Price:       "$145,000",
		Description: "Luxury sports car with a 585 hp V8, built for high performance and elegant design.",
		ImageURL:    "https://images.unsplash.com/photo-1555353540-64580b51c258",
		Tag:         models.StringPtr("New"),
	},
	{
		Name:        "Porsche 911 Turbo",
		Year:        2023,
		Speed:       "330 km/h",
		Price:       "$175,000",
		Description: "The iconic sports car with a flat-six engine, equally at home on the track and the daily commute.",
		ImageURL:    "https://images.unsplash.com/photo-1603584173870-7f23fdae1b7a",
	},
	{
		Name:        "Ferrari SF90",
		Year:        2023,
		Speed:       "340 km/h",
		Price:       "$520,000",
		Description: "A 986 hp hybrid supercar pairing electric motors with a V8.",
		ImageURL:    "https://images.unsplash.com/photo-1580274455191-1c62238fa333",
		Tag:         models.StringPtr("Hybrid"),
	},
}

// SeedVideos is the starter carousel loaded into an empty store.
var SeedVideos = []models.NewVideo{
	{
		Title:        "Track test: the new Porsche 911",
		Description:  "An exclusive look at the new 911 on the race track.",
		VideoURL:     "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
		ThumbnailURL: "https://images.unsplash.com/photo-1606016159991-dfe4f2746ad5",
		Duration:     "04:32",
		Featured:     models.BoolPtr(true),
	},
	{
		Title:        "Ferrari Roma in depth: performance, design and driving",
		Description:  "A detailed review of the new Ferrari Roma.",
		VideoURL:     "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		ThumbnailURL: "https://images.unsplash.com/photo-1503376780353-7e6692767b70",
		Duration:     "08:15",
		Featured:     models.BoolPtr(true),
	},
	{
		Title:        "Lamborghini Aventador SVJ walkaround",
		Description:  "Aventador SVJ: a striking supercar with unmatched performance.",
		VideoURL:     "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
		ThumbnailURL: "https://images.unsplash.com/photo-1526726538690-5cbf956ae2fd",
		Duration:     "10:22",
		Featured:     models.BoolPtr(true),
	},
}

// Seed loads the admin account and the starter catalog, but only into a store
// with no users. It reports whether anything was written. adminPassword must
// already be in its stored (hashed) form.
func Seed(ctx context.Context, store EntityStore, adminUsername, adminPassword string) (bool, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: list users: %w", err)
	}
	if len(users) > 0 {
		return false, nil
	}

	if _, err := store.CreateUser(ctx, models.NewUser{
		Username: adminUsername,
		Password: adminPassword,
		IsAdmin:  models.BoolPtr(true),
	}); err != nil {
		return false, fmt.Errorf("seed: admin user: %w", err)
	}
	for _, car := range SeedCars {
		if _, err := store.CreateCar(ctx, car); err != nil {
			return false, fmt.Errorf("seed: car %q: %w", car.Name, err)
		}
	}
	for _, video := range SeedVideos {
		if _, err := store.CreateVideo(ctx, video); err != nil {
			return false, fmt.Errorf("seed: video %q: %w", video.Title, err)
		}
	}
	return true, nil
}
