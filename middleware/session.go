// Package middleware provides request filters and security checks for the application.
// File: middleware/session.go
package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionKey is the cookie-session field holding the server-side session id.
const SessionKey = "sid"

// SessionID returns the session id stored in the request cookie, or "".
func SessionID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(SessionKey).(string)
	return id
}

// SetSessionID writes id into the session cookie.
func SetSessionID(c *gin.Context, id string) error {
	session := sessions.Default(c)
	session.Set(SessionKey, id)
	return session.Save()
}

// ClearSession empties the cookie and tells the browser to drop it. opts must be
// the options the cookie was issued with, otherwise a Domain cookie survives.
func ClearSession(c *gin.Context, opts sessions.Options) error {
	session := sessions.Default(c)
	session.Clear()
	opts.MaxAge = -1
	session.Options(opts)
	return session.Save()
}
