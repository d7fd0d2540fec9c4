package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vvf-listone/internal/dto"
	"vvf-listone/internal/model"
	"vvf-listone/internal/service"
	"vvf-listone/pkg/jwt"
	"vvf-listone/pkg/response"
)

// SessionHandler login/logout and role switch
type SessionHandler struct {
	state    service.StateService
	sessions service.SessionService
	jwtMgr   *jwt.Manager
}

// NewSessionHandler creates a SessionHandler
func NewSessionHandler(state service.StateService, sessions service.SessionService, jwtMgr *jwt.Manager) *SessionHandler {
	return &SessionHandler{state: state, sessions: sessions, jwtMgr: jwtMgr}
}

// Login opens a session for the selected role
// POST /api/v1/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	role, err := model.ParseUserRole(req.Role)
	if err != nil {
		response.BadRequest(c, 11001, err.Error())
		return
	}

	sess, err := h.state.Login(c.Request.Context(), role)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	h.respondWithToken(c, sess)
}

// Logout clears the session
// POST /api/v1/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.state.Logout(c.Request.Context())
	response.OK(c, dto.SessionResponse{})
}

// GetSession reports whether a session is active
// GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	response.OK(c, dto.NewSessionResponse(h.sessions.LoadSession(c.Request.Context())))
}

// SetRole switches role; the old token stops authenticating
// PUT /api/v1/session/role
func (h *SessionHandler) SetRole(c *gin.Context) {
	if _, ok := MustGetRole(c); !ok {
		return
	}

	var req dto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	role, err := model.ParseUserRole(req.Role)
	if err != nil {
		response.BadRequest(c, 11001, err.Error())
		return
	}

	sess, err := h.state.SetRole(c.Request.Context(), role)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	h.respondWithToken(c, sess)
}

func (h *SessionHandler) respondWithToken(c *gin.Context, sess model.SessionData) {
	token, err := h.jwtMgr.GenerateAccessToken(string(sess.Role), sess.AuthenticatedAt)
	if err != nil {
		response.InternalError(c)
		return
	}
	resp := dto.NewSessionResponse(&sess)
	resp.AccessToken = token
	resp.ExpiresIn = int(h.jwtMgr.TTL().Seconds())
	response.OK(c, resp)
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11001, "unknown role")
	case errors.Is(err, service.ErrNotAuthenticated):
		response.Error(c, http.StatusUnauthorized, 10002, "no active session")
	default:
		response.InternalError(c)
	}
}
