package dto

// ── session DTOs ──

// LoginRequest role selection at login; there are no credentials
type LoginRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRoleRequest role switch within an active session
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
