// Package controllers file: controllers/car_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-showcase/models"
	"car-showcase/services"
)

const msgInvalidCarID = "Invalid car ID"

// CarController serves /api/cars.
type CarController struct {
	catalog services.CatalogServiceInterface
}

func NewCarController(catalog services.CatalogServiceInterface) *CarController {
	return &CarController{catalog: catalog}
}

func (cc *CarController) List(c *gin.Context) {
	cars, err := cc.catalog.ListCars(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch cars")
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (cc *CarController) Get(c *gin.Context) {
	id, ok := parseID(c, msgInvalidCarID)
	if !ok {
		return
	}
	car, err := cc.catalog.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch car")
		return
	}
	c.JSON(http.StatusOK, car)
}

func (cc *CarController) Create(c *gin.Context) {
	var in models.NewCar
	if !bindJSON(c, &in) {
		return
	}
	car, err := cc.catalog.CreateCar(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create car")
		return
	}
	c.JSON(http.StatusCreated, car)
}

// Update applies a partial update; absent fields are kept and "tag": null clears the tag.
func (cc *CarController) Update(c *gin.Context) {
	id, ok := parseID(c, msgInvalidCarID)
	if !ok {
		return
	}
	var patch models.CarPatch
	if !bindJSON(c, &patch) {
		return
	}
	car, err := cc.catalog.UpdateCar(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "Failed to update car")
		return
	}
	c.JSON(http.StatusOK, car)
}

func (cc *CarController) Delete(c *gin.Context) {
	id, ok := parseID(c, msgInvalidCarID)
	if !ok {
		return
	}
	if err := cc.catalog.DeleteCar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete car")
		return
	}
	c.Status(http.StatusNoContent)
}
