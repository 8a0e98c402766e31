// File: models/video.go
package models

import "time"

// Video is a promotional clip. UploadDate is fixed when the video is created.
type Video struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     string    `json:"duration"`
	Featured     bool      `json:"featured"`
	UploadDate   time.Time `json:"uploadDate"`
}

// NewVideo is the validated body of POST /api/videos. A nil Featured is stored as false.
type NewVideo struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	VideoURL     string `json:"videoUrl" binding:"required"`
	ThumbnailURL string `json:"thumbnailUrl" binding:"required"`
	Duration     string `json:"duration" binding:"required"`
	Featured     *bool  `json:"featured"`
}

// Build returns the record a store persists for n under id.
func (n NewVideo) Build(id int64, uploaded time.Time) Video {
	return Video{
		ID:           id,
		Title:        n.Title,
		Description:  n.Description,
		VideoURL:     n.VideoURL,
		ThumbnailURL: n.ThumbnailURL,
		Duration:     n.Duration,
		Featured:     BoolValue(n.Featured),
		UploadDate:   uploaded,
	}
}

// VideoPatch is a partial update. UploadDate is not patchable.
type VideoPatch struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	VideoURL     *string `json:"videoUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Duration     *string `json:"duration"`
	Featured     *bool   `json:"featured"`
}

// Empty reports whether the patch changes nothing.
func (p VideoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.VideoURL == nil &&
		p.ThumbnailURL == nil && p.Duration == nil && p.Featured == nil
}

// Apply merges the provided fields over v.
func (p VideoPatch) Apply(v Video) Video {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.VideoURL != nil {
		v.VideoURL = *p.VideoURL
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Duration != nil {
		v.Duration = *p.Duration
	}
	if p.Featured != nil {
		v.Featured = *p.Featured
	}
	return v
}
