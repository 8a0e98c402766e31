// Package controllers maps the JSON API onto the auth and catalog services.
// file: controllers/respond.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"car-showcase/apperr"
	"car-showcase/logger"
)

// FieldError is one entry of a validation failure response.
type FieldError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

func init() {
	// report json field names ("imageUrl") rather than Go names ("ImageURL")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes and validates the body into obj. On failure it has already
// answered 400 {"message":"Validation error","errors":[...]}.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	logger.Debug("request body rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": fieldErrors(err)})
	return false
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Path: []string{fe.Field()}, Message: validationMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Path:    []string{typeErr.Field},
			Message: "Expected " + typeErr.Type.String() + ", received " + typeErr.Value,
		}}
	}
	return []FieldError{{Path: []string{}, Message: err.Error()}}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	default:
		return "Failed " + fe.Tag() + " check"
	}
}

// parseID reads the :id path parameter. On failure it has already answered 400 msg.
func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return 0, false
	}
	return id, true
}

// respondError answers with the status for err. Internal failures are logged and
// reported with fallback so no detail leaks to the client.
func respondError(c *gin.Context, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"message": apperr.MessageOf(err, fallback)})
}
