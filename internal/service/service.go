package service

import (
	"context"

	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/storage"
	"vvf-listone/pkg/browser"
)

// Service aggregate of every service
type Service struct {
	Session SessionService
	State   *StateController
	Export  ExportService
}

// NewService wires the services on top of the storage adapter
func NewService(
	ctx context.Context,
	cfg *config.Config,
	store *storage.Adapter,
	launcher browser.Launcher,
	logger *zap.Logger,
) *Service {
	sessions := NewSessionService(store, cfg.Auth.SessionTTL, logger)
	state := NewStateController(ctx, store, sessions, logger)
	return &Service{
		Session: sessions,
		State:   state,
		Export:  NewExportService(cfg.Export, launcher, state, logger),
	}
}
