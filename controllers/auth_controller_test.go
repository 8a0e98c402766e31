//go:build unit

// file: controllers/auth_controller_test.go
package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"car-showcase/apperr"
	"car-showcase/middleware"
	"car-showcase/models"
	"car-showcase/services"
)

func authRouter(t *testing.T, auth *services.MockAuthService) *gin.Engine {
	router := setupTestRouter(t)
	ac := NewAuthController(auth, sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true})
	router.POST("/api/register", middleware.LoadUser(auth), ac.Register)
	router.POST("/api/login", ac.Login)
	router.POST("/api/logout", ac.Logout)
	router.GET("/api/user", middleware.AuthRequired(auth), ac.User)
	return router
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	auth := new(services.MockAuthService)
	user := models.User{ID: 2, Username: "bob", Password: "deadbeef.cafe"}
	auth.On("Register", mock.Anything, "bob", "s3cret", models.BoolPtr(false)).
		Return(user, models.Session{ID: "sess-2", UserID: 2}, nil)

	router := authRouter(t, auth)
	w := doJSON(router, http.MethodPost, "/api/register", gin.H{"username": "bob", "password": "s3cret"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":2,"username":"bob","isAdmin":false}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotNil(t, sessionCookieFrom(w))
	auth.AssertExpectations(t)
}

func TestRegister_AnonymousCannotSelfPromote(t *testing.T) {
	auth := new(services.MockAuthService)
	auth.On("Register", mock.Anything, "mallory", "pw", models.BoolPtr(false)).
		Return(models.User{ID: 3, Username: "mallory"}, models.Session{ID: "s3"}, nil)

	router := authRouter(t, auth)
	w := doJSON(router, http.MethodPost, "/api/register", gin.H{"username": "mallory", "password": "pw", "isAdmin": true})

	assert.Equal(t, http.StatusCreated, w.Code)
	auth.AssertExpectations(t)
}

func TestRegister_AdminCallerMayGrantAdmin(t *testing.T) {
	auth := new(services.MockAuthService)
	auth.On("CurrentUser", mock.Anything, "admin-sid").Return(models.User{ID: 1, Username: "admin", IsAdmin: true}, nil)
	auth.On("Register", mock.Anything, "carol", "pw", models.BoolPtr(true)).
		Return(models.User{ID: 4, Username: "carol", IsAdmin: true}, models.Session{ID: "s4"}, nil)
	auth.On("Logout", mock.Anything, "s4").Return(nil)

	router := authRouter(t, auth)
	adminCookie := SetSession(router, "/test/login-admin", map[string]interface{}{middleware.SessionKey: "admin-sid"})
	require.NotNil(t, adminCookie)

	w := doJSON(router, http.MethodPost, "/api/register", gin.H{"username": "carol", "password": "pw", "isAdmin": true}, adminCookie)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":4,"username":"carol","isAdmin":true}`, w.Body.String())
	// the admin's cookie is left alone and the new user's session is dropped
	assert.Nil(t, sessionCookieFrom(w))
	auth.AssertExpectations(t)
}

func TestRegister_AdminCallerKeepsOwnSession(t *testing.T) {
	auth := new(services.MockAuthService)
	admin := models.User{ID: 1, Username: "admin", IsAdmin: true}
	auth.On("CurrentUser", mock.Anything, "admin-sid").Return(admin, nil)
	auth.On("Register", mock.Anything, "editor", "pw", (*bool)(nil)).
		Return(models.User{ID: 2, Username: "editor"}, models.Session{ID: "s2", UserID: 2}, nil)
	auth.On("Logout", mock.Anything, "s2").Return(nil)

	router := authRouter(t, auth)
	adminCookie := SetSession(router, "/test/login-admin", map[string]interface{}{middleware.SessionKey: "admin-sid"})
	require.NotNil(t, adminCookie)

	w := doJSON(router, http.MethodPost, "/api/register", gin.H{"username": "editor", "password": "pw"}, adminCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/user", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"username":"admin","isAdmin":true}`, w.Body.String())
	auth.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	auth := new(services.MockAuthService)
	auth.On("Register", mock.Anything, "admin", "pw", models.BoolPtr(false)).
		Return(models.User{}, models.Session{}, apperr.Conflict(services.MsgUsernameTaken))

	router := authRouter(t, auth)
	w := doJSON(router, http.MethodPost, "/api/register", gin.H{"username": "admin", "password": "pw"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Username already exists"}`, w.Body.String())
	assert.Nil(t, sessionCookieFrom(w))
}

func TestRegister_MissingPassword(t *testing.T) {
	auth := new(services.MockAuthService)
	router := authRouter(t, auth)

	w := doJSON(router, http.MethodPost, "/api/register", gin.H{"username": "dave"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Validation error","errors":[{"path":["password"],"message":"Required"}]}`, w.Body.String())
	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth := new(services.MockAuthService)
	auth.On("Login", mock.Anything, "admin", "wrong").
		Return(models.User{}, models.Session{}, apperr.Authentication(services.MsgInvalidCredentials))

	router := authRouter(t, auth)
	w := doJSON(router, http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid username or password"}`, w.Body.String())
}

func TestLogin_ThenUserThenLogout(t *testing.T) {
	auth := new(services.MockAuthService)
	admin := models.User{ID: 1, Username: "admin", IsAdmin: true}
	auth.On("Login", mock.Anything, "admin", "adminpassword").Return(admin, models.Session{ID: "s1", UserID: 1}, nil)
	auth.On("CurrentUser", mock.Anything, "s1").Return(admin, nil)
	auth.On("Logout", mock.Anything, "s1").Return(nil)

	router := authRouter(t, auth)

	w := doJSON(router, http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "adminpassword"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"username":"admin","isAdmin":true}`, w.Body.String())
	cookie := sessionCookieFrom(w)
	require.NotNil(t, cookie)

	w = doJSON(router, http.MethodGet, "/api/user", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"username":"admin","isAdmin":true}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookieFrom(w)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
	assert.True(t, cleared.HttpOnly)
	auth.AssertExpectations(t)
}

func TestLogout_WithoutSessionSucceeds(t *testing.T) {
	auth := new(services.MockAuthService)
	auth.On("Logout", mock.Anything, "").Return(nil)

	router := authRouter(t, auth)
	w := doJSON(router, http.MethodPost, "/api/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	auth.AssertExpectations(t)
}

func TestUser_Unauthenticated(t *testing.T) {
	auth := new(services.MockAuthService)
	auth.On("CurrentUser", mock.Anything, "").Return(models.User{}, apperr.Unauthenticated(services.MsgAuthRequired))

	router := authRouter(t, auth)
	w := doJSON(router, http.MethodGet, "/api/user", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Authentication required"}`, w.Body.String())
}
