// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-showcase/apperr"
	"car-showcase/logger"
	"car-showcase/models"
	"car-showcase/services"
)

const userKey = "currentUser"

// CurrentUser returns the user resolved by AuthRequired, AdminRequired or LoadUser.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// -------------- authentication middleware --------------

// AuthRequired rejects requests without a live session with 401.
func AuthRequired(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.CurrentUser(c.Request.Context(), SessionID(c))
		if err != nil {
			abortWith(c, err, services.MsgAuthRequired)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// abortWith ends the chain with the status and client-safe message for err.
func abortWith(c *gin.Context, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if apperr.KindOf(err) == apperr.KindInternal {
		logger.Error("session lookup failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		fallback = "Internal server error"
	} else {
		logger.Debug("request refused", zap.String("path", c.Request.URL.Path), zap.Int("status", status))
	}
	c.AbortWithStatusJSON(status, gin.H{"message": apperr.MessageOf(err, fallback)})
}
