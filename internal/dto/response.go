package dto

import (
	"time"

	"vvf-listone/internal/model"
)

// ── session responses ──

// SessionResponse current session; AccessToken is only set by login and role switch
type SessionResponse struct {
	Authenticated   bool       `json:"authenticated"`
	Role            string     `json:"role,omitempty"`
	AuthenticatedAt *time.Time `json:"authenticatedAt,omitempty"`
	AccessToken     string     `json:"access_token,omitempty"`
	ExpiresIn       int        `json:"expires_in,omitempty"` // access token lifetime, seconds
}

// NewSessionResponse builds the response for sess (nil = logged out)
func NewSessionResponse(sess *model.SessionData) SessionResponse {
	if sess == nil {
		return SessionResponse{}
	}
	at := sess.AuthenticatedAt
	return SessionResponse{
		Authenticated:   true,
		Role:            string(sess.Role),
		AuthenticatedAt: &at,
	}
}

// ── state responses ──

// StateResponse full UI state
type StateResponse struct {
	Events        []model.OperationalEvent `json:"events"`
	Operators     []model.Operator         `json:"operators"`
	SelectedDate  string                   `json:"selectedDate"`
	EditingEvent  *model.OperationalEvent  `json:"editingEvent"`
	Screen        string                   `json:"screen"`
	Role          string                   `json:"role"`
	Authenticated bool                     `json:"authenticated"`
}

// EventListResponse events of one day, or the whole collection
type EventListResponse struct {
	Date   string                   `json:"date,omitempty"`
	Events []model.OperationalEvent `json:"events"`
}

// SelectedDateResponse dashboard cursor
type SelectedDateResponse struct {
	SelectedDate string `json:"selectedDate"`
}

// ScreenResponse active view after a navigation
type ScreenResponse struct {
	Screen       string                  `json:"screen"`
	EditingEvent *model.OperationalEvent `json:"editingEvent"`
}
