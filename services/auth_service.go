// Package services: services/auth_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"car-showcase/apperr"
	"car-showcase/logger"
	"car-showcase/metrics"
	"car-showcase/models"
	"car-showcase/sessionstore"
	"car-showcase/storage"
)

// user-facing auth messages
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgAuthRequired       = "Authentication required"
	MsgAdminRequired      = "Admin access required"
	MsgUsernameTaken      = "Username already exists"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string, isAdmin *bool) (models.User, models.Session, error)
	Login(ctx context.Context, username, password string) (models.User, models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (models.User, error)
	RequireAdmin(ctx context.Context, sessionID string) (models.User, error)
}

var _ AuthServiceInterface = (*AuthService)(nil)

// AuthService checks credentials against the entity store and manages sessions.
type AuthService struct {
	store    storage.EntityStore
	sessions sessionstore.Store
	metrics  metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(store storage.EntityStore, sessions sessionstore.Store, rec metrics.Recorder) *AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthService{store: store, sessions: sessions, metrics: rec}
}

// Register creates an account with a hashed password and signs it in.
func (s *AuthService) Register(ctx context.Context, username, password string, isAdmin *bool) (models.User, models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, models.Session{}, apperr.Validation("Username and password are required")
	}

	if _, taken, err := s.store.GetUserByUsername(ctx, username); err != nil {
		return models.User{}, models.Session{}, apperr.Internal("lookup username", err)
	} else if taken {
		logger.Info("registration rejected, username taken", zap.String("username", username))
		return models.User{}, models.Session{}, apperr.Conflict(MsgUsernameTaken)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, models.Session{}, apperr.Internal("hash password", err)
	}

	user, err := s.store.CreateUser(ctx, models.NewUser{Username: username, Password: hashed, IsAdmin: isAdmin})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateUsername) {
			return models.User{}, models.Session{}, apperr.Conflict(MsgUsernameTaken)
		}
		return models.User{}, models.Session{}, apperr.Internal("create user", err)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return models.User{}, models.Session{}, apperr.Internal("create session", err)
	}
	s.metrics.Registration()
	logger.Info("user registered", zap.Int64("userId", user.ID), zap.Bool("isAdmin", user.IsAdmin))
	return user, sess, nil
}

// Login verifies credentials and starts a session. Unknown users and wrong passwords
// fail identically. A legacy plain-text password is re-hashed after a successful match.
// The username is trimmed the same way Register trims it.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, models.Session, error) {
	username = strings.TrimSpace(username)
	user, found, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, models.Session{}, apperr.Internal("lookup user", err)
	}
	if !found {
		// burn the same scrypt cost as a real check
		_, _, _ = VerifyPassword(password, s.dummy())
		return s.loginFailed(username)
	}

	ok, legacy, err := VerifyPassword(password, user.Password)
	if err != nil {
		logger.Error("stored credential unreadable", zap.Int64("userId", user.ID), zap.Error(err))
		return s.loginFailed(username)
	}
	if !ok {
		return s.loginFailed(username)
	}
	if legacy {
		s.upgradeLegacy(ctx, user)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return models.User{}, models.Session{}, apperr.Internal("create session", err)
	}
	s.metrics.LoginAttempt(metrics.LoginSuccess)
	logger.Info("user logged in", zap.Int64("userId", user.ID))
	return user, sess, nil
}

func (s *AuthService) loginFailed(username string) (models.User, models.Session, error) {
	s.metrics.LoginAttempt(metrics.LoginFailure)
	logger.Warn("login failed", zap.String("username", username))
	return models.User{}, models.Session{}, apperr.Authentication(MsgInvalidCredentials)
}

func (s *AuthService) upgradeLegacy(ctx context.Context, user models.User) {
	s.metrics.LoginAttempt(metrics.LoginLegacy)
	hashed, err := HashPassword(user.Password)
	if err == nil {
		_, err = s.store.UpdateUserPassword(ctx, user.ID, hashed)
	}
	if err != nil {
		logger.Warn("legacy password upgrade failed", zap.Int64("userId", user.ID), zap.Error(err))
		return
	}
	logger.Info("legacy password upgraded", zap.Int64("userId", user.ID))
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = HashPassword("car-showcase-timing-equaliser")
	})
	return s.dummyHash
}

// Logout destroys the session. Unknown or empty ids succeed.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return apperr.Internal("destroy session", err)
	}
	return nil
}

// CurrentUser resolves a session id to its user, or fails with an Unauthenticated error.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (models.User, error) {
	if sessionID == "" {
		return models.User{}, apperr.Unauthenticated(MsgAuthRequired)
	}
	sess, ok, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.User{}, apperr.Internal("load session", err)
	}
	if !ok {
		return models.User{}, apperr.Unauthenticated(MsgAuthRequired)
	}
	user, found, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		return models.User{}, apperr.Internal("load session user", err)
	}
	if !found {
		logger.Warn("session refers to missing user", zap.Int64("userId", sess.UserID))
		_ = s.sessions.Destroy(ctx, sessionID)
		return models.User{}, apperr.Unauthenticated(MsgAuthRequired)
	}
	return user, nil
}

// RequireAdmin is CurrentUser plus an admin check: no session is Unauthenticated,
// a non-admin session is Forbidden.
func (s *AuthService) RequireAdmin(ctx context.Context, sessionID string) (models.User, error) {
	user, err := s.CurrentUser(ctx, sessionID)
	if err != nil {
		return models.User{}, err
	}
	if !user.IsAdmin {
		logger.Warn("admin route refused", zap.Int64("userId", user.ID))
		return models.User{}, apperr.Forbidden(MsgAdminRequired)
	}
	return user, nil
}

// MigrateLegacyPasswords hashes every plain-text password in the store and returns how many changed.
func (s *AuthService) MigrateLegacyPasswords(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, apperr.Internal("list users", err)
	}
	migrated := 0
	for _, u := range users {
		if IsHashed(u.Password) {
			continue
		}
		hashed, err := HashPassword(u.Password)
		if err != nil {
			return migrated, apperr.Internal("hash password", err)
		}
		if _, err := s.store.UpdateUserPassword(ctx, u.ID, hashed); err != nil {
			return migrated, apperr.Internal("update password", err)
		}
		migrated++
	}
	if migrated > 0 {
		logger.Info("legacy passwords migrated", zap.Int("count", migrated))
	}
	return migrated, nil
}
