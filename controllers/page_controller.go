// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-showcase/logger"
	"car-showcase/services"
)

// PageController serves the health probe and QR share codes.
type PageController struct {
	catalog services.CatalogServiceInterface
	qr      *services.QRCodeService
	env     string
	now     func() time.Time
}

func NewPageController(catalog services.CatalogServiceInterface, qr *services.QRCodeService, env string) *PageController {
	return &PageController{catalog: catalog, qr: qr, env: env, now: time.Now}
}

// Health reports online, or 503 degraded when the entity store cannot be reached.
func (pc *PageController) Health(c *gin.Context) {
	body := gin.H{
		"status":      "online",
		"message":     "Car showcase API is running",
		"timestamp":   pc.now().UTC().Format(time.RFC3339),
		"environment": pc.env,
	}
	if err := pc.catalog.Ping(c.Request.Context()); err != nil {
		logger.Warn("health check: storage unreachable", zap.Error(err))
		body["status"] = "degraded"
		body["message"] = "Storage unavailable"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// CarQRCode returns a PNG share code for an existing car.
func (pc *PageController) CarQRCode(c *gin.Context) {
	id, ok := parseID(c, msgInvalidCarID)
	if !ok {
		return
	}
	if _, err := pc.catalog.GetCar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to fetch car")
		return
	}
	png, err := pc.qr.ForCar(id)
	pc.writePNG(c, png, err)
}

// VideoQRCode returns a PNG share code for an existing video.
func (pc *PageController) VideoQRCode(c *gin.Context) {
	id, ok := parseID(c, msgInvalidVideoID)
	if !ok {
		return
	}
	if _, err := pc.catalog.GetVideo(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to fetch video")
		return
	}
	png, err := pc.qr.ForVideo(id)
	pc.writePNG(c, png, err)
}

func (pc *PageController) writePNG(c *gin.Context, png []byte, err error) {
	if err != nil {
		logger.Error("QR generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "QR generation failed"})
		return
	}
	c.Header("Content-Disposition", `inline; filename="qrcode.png"`)
	c.Data(http.StatusOK, "image/png", png)
}
