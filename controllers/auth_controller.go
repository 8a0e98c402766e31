// Package controllers file: controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-showcase/logger"
	"car-showcase/middleware"
	"car-showcase/models"
	"car-showcase/services"
)

// AuthController handles registration, login and session inspection.
type AuthController struct {
	auth   services.AuthServiceInterface
	cookie sessions.Options
}

// NewAuthController binds the handlers to auth. cookie holds the options the
// session cookie is issued with; logout clears it with the same ones.
func NewAuthController(auth services.AuthServiceInterface, cookie sessions.Options) *AuthController {
	return &AuthController{auth: auth, cookie: cookie}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  *bool  `json:"isAdmin"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and signs it in. isAdmin in the body is only
// honored when the caller is already an admin (LoadUser must run first). An
// admin creating an account stays signed in as themselves.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	caller, ok := middleware.CurrentUser(c)
	byAdmin := ok && caller.IsAdmin

	isAdmin := models.BoolPtr(false)
	if byAdmin {
		isAdmin = req.IsAdmin
	} else if models.BoolValue(req.IsAdmin) {
		logger.Warn("ignoring isAdmin on public registration", zap.String("username", req.Username))
	}

	user, sess, err := ac.auth.Register(c.Request.Context(), req.Username, req.Password, isAdmin)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}
	if byAdmin {
		if err := ac.auth.Logout(c.Request.Context(), sess.ID); err != nil {
			logger.Warn("drop session of admin-created user", zap.Int64("userId", user.ID), zap.Error(err))
		}
		logger.Info("admin created user",
			zap.Int64("adminId", caller.ID), zap.Int64("userId", user.ID), zap.Bool("isAdmin", user.IsAdmin))
		c.JSON(http.StatusCreated, user)
		return
	}
	if !ac.startSession(c, sess) {
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login checks credentials and sets the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, sess, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	if !ac.startSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout ends the server-side session and clears the cookie. It always succeeds
// for callers without a session.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		respondError(c, err, "Logout failed")
		return
	}
	if err := middleware.ClearSession(c, ac.cookie); err != nil {
		logger.Warn("clear session cookie", zap.Error(err))
	}
	c.String(http.StatusOK, "OK")
}

// User returns the signed-in user. It runs behind AuthRequired.
func (ac *AuthController) User(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": services.MsgAuthRequired})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) startSession(c *gin.Context, sess models.Session) bool {
	if err := middleware.SetSessionID(c, sess.ID); err != nil {
		logger.Error("save session cookie", zap.Error(err))
		_ = ac.auth.Logout(c.Request.Context(), sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to start session"})
		return false
	}
	return true
}
