package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"vvf-listone/internal/model"
	"vvf-listone/internal/storage"
)

// ── session errors ──

var (
	ErrInvalidRole      = errors.New("unknown role")
	ErrNotAuthenticated = errors.New("no active session")
)

// SessionService the single current session.
//
// There is no authenticated flag: a session is authenticated exactly when
// LoadSession returns non-nil.
type SessionService interface {
	LoadSession(ctx context.Context) *model.SessionData
	SaveSession(ctx context.Context, role model.UserRole) (model.SessionData, error)
	ClearSession(ctx context.Context)
	IsAuthenticated(ctx context.Context) bool
}

type sessionService struct {
	store  *storage.Adapter
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewSessionService creates a SessionService; ttl 0 disables expiry
func NewSessionService(store *storage.Adapter, ttl time.Duration, logger *zap.Logger) SessionService {
	return &sessionService{store: store, ttl: ttl, now: time.Now, logger: logger}
}

func (s *sessionService) LoadSession(ctx context.Context) *model.SessionData {
	sess := s.store.LoadSession(ctx)
	if sess == nil {
		return nil
	}
	if s.ttl > 0 && s.now().Sub(sess.AuthenticatedAt) > s.ttl {
		s.logger.Info("session expired", zap.String("role", string(sess.Role)), zap.Time("authenticated_at", sess.AuthenticatedAt))
		return nil
	}
	return sess
}

// SaveSession stamps the current time and stores {role, authenticatedAt}.
// The write is read back: a session the store did not keep is ErrNotAuthenticated.
func (s *sessionService) SaveSession(ctx context.Context, role model.UserRole) (model.SessionData, error) {
	if !role.Valid() {
		return model.SessionData{}, ErrInvalidRole
	}
	sess := model.SessionData{Role: role, AuthenticatedAt: s.now().UTC()}
	s.store.SaveSession(ctx, sess)

	stored := s.LoadSession(ctx)
	if stored == nil || stored.Role != sess.Role || !stored.AuthenticatedAt.Equal(sess.AuthenticatedAt) {
		s.logger.Warn("session not persisted", zap.String("role", string(role)))
		return model.SessionData{}, ErrNotAuthenticated
	}
	return sess, nil
}

func (s *sessionService) ClearSession(ctx context.Context) {
	s.store.ClearSession(ctx)
}

func (s *sessionService) IsAuthenticated(ctx context.Context) bool {
	return s.LoadSession(ctx) != nil
}
