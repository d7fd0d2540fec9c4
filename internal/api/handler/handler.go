package handler

import (
	"vvf-listone/internal/service"
	"vvf-listone/pkg/jwt"
)

// Handler aggregate of every HTTP handler
type Handler struct {
	Session *SessionHandler
	State   *StateHandler
	Export  *ExportHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, jwtMgr *jwt.Manager) *Handler {
	return &Handler{
		Session: NewSessionHandler(svc.State, svc.Session, jwtMgr),
		State:   NewStateHandler(svc.State),
		Export:  NewExportHandler(svc.Export),
	}
}
