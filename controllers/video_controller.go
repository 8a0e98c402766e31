// Package controllers file: controllers/video_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-showcase/models"
	"car-showcase/services"
)

const msgInvalidVideoID = "Invalid video ID"

// VideoController serves /api/videos.
type VideoController struct {
	catalog services.CatalogServiceInterface
}

func NewVideoController(catalog services.CatalogServiceInterface) *VideoController {
	return &VideoController{catalog: catalog}
}

// List returns every video, newest upload first.
func (vc *VideoController) List(c *gin.Context) {
	videos, err := vc.catalog.ListVideos(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (vc *VideoController) Featured(c *gin.Context) {
	videos, err := vc.catalog.ListFeaturedVideos(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch featured videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (vc *VideoController) Get(c *gin.Context) {
	id, ok := parseID(c, msgInvalidVideoID)
	if !ok {
		return
	}
	video, err := vc.catalog.GetVideo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch video")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (vc *VideoController) Create(c *gin.Context) {
	var in models.NewVideo
	if !bindJSON(c, &in) {
		return
	}
	video, err := vc.catalog.CreateVideo(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create video")
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (vc *VideoController) Update(c *gin.Context) {
	id, ok := parseID(c, msgInvalidVideoID)
	if !ok {
		return
	}
	var patch models.VideoPatch
	if !bindJSON(c, &patch) {
		return
	}
	video, err := vc.catalog.UpdateVideo(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "Failed to update video")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (vc *VideoController) Delete(c *gin.Context) {
	id, ok := parseID(c, msgInvalidVideoID)
	if !ok {
		return
	}
	if err := vc.catalog.DeleteVideo(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete video")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetFeatured handles PATCH /api/videos/:id/featured with {"featured": bool}.
func (vc *VideoController) SetFeatured(c *gin.Context) {
	id, ok := parseID(c, msgInvalidVideoID)
	if !ok {
		return
	}
	var body map[string]interface{}
	featured, isBool := false, false
	if err := c.ShouldBindJSON(&body); err == nil {
		featured, isBool = body["featured"].(bool)
	}
	if !isBool {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Featured status must be a boolean"})
		return
	}
	video, err := vc.catalog.SetVideoFeatured(c.Request.Context(), id, featured)
	if err != nil {
		respondError(c, err, "Failed to update video feature status")
		return
	}
	c.JSON(http.StatusOK, video)
}
