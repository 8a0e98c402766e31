// Package middleware file: middleware/role.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-showcase/apperr"
	"car-showcase/logger"
	"car-showcase/services"
)

// LoadUser resolves the caller when a session exists but never blocks the request.
// Handlers whose behavior depends on the caller's role read it with CurrentUser.
func LoadUser(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := SessionID(c); id != "" {
			user, err := auth.CurrentUser(c.Request.Context(), id)
			switch {
			case err == nil:
				c.Set(userKey, user)
			case apperr.KindOf(err) == apperr.KindInternal:
				logger.Warn("could not resolve caller", zap.Error(err))
			}
		}
		c.Next()
	}
}
