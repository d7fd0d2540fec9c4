package model

import (
	"fmt"
	"time"
)

// UserRole compiler role selected at login; closed set
type UserRole string

const (
	RoleCompilatoreA UserRole = "COMPILATORE_A"
	RoleCompilatoreB UserRole = "COMPILATORE_B"
	RoleCompilatoreC UserRole = "COMPILATORE_C"

	DefaultRole = RoleCompilatoreA
)

// Roles lists every accepted role in display order
var Roles = []UserRole{RoleCompilatoreA, RoleCompilatoreB, RoleCompilatoreC}

// Valid reports whether r belongs to the closed role set
func (r UserRole) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseUserRole validates a role received from a client
func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// ScreenType the view the UI should currently show
type ScreenType string

const (
	ScreenDashboard  ScreenType = "DASHBOARD"
	ScreenStaff      ScreenType = "STAFF"
	ScreenCreazione  ScreenType = "CREAZIONE"
	ScreenGeneratore ScreenType = "GENERATORE"
)

// Valid reports whether s is a known screen
func (s ScreenType) Valid() bool {
	switch s {
	case ScreenDashboard, ScreenStaff, ScreenCreazione, ScreenGeneratore:
		return true
	}
	return false
}

// SessionData the single current session
type SessionData struct {
	Role            UserRole  `json:"role"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
}

// Valid reports whether a decoded session is usable
func (s *SessionData) Valid() bool {
	return s != nil && s.Role.Valid() && !s.AuthenticatedAt.IsZero()
}
