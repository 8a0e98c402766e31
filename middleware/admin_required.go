// Package middleware description is Middleware that checks if the user is an admin.
// file: middleware/admin_required.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"car-showcase/services"
)

// AdminRequired lets through only admin sessions: 401 without a session, 403 for non-admins.
func AdminRequired(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.RequireAdmin(c.Request.Context(), SessionID(c))
		if err != nil {
			abortWith(c, err, services.MsgAdminRequired)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}
