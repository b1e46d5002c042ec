package identity

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=1,max=72"`
	// TenantID narrows the lookup when the same username exists in several shops
	TenantID *uuid.UUID `json:"tenantId"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest represents a password change by the signed-in user
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// LogoutRequest revokes the refresh token of the session
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the signed-in user as shown to the client
type UserResponse struct {
	ID          uuid.UUID           `json:"id"`
	TenantID    uuid.UUID           `json:"tenantId"`
	Username    string              `json:"username"`
	DisplayName string              `json:"displayName"`
	Permissions []string            `json:"permissions"`
	Status      identity.UserStatus `json:"status"`
	LastLoginAt *time.Time          `json:"lastLoginAt,omitempty"`
}

// ToUserResponse converts a user
func ToUserResponse(u *identity.User) UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.DisplayNameOrUsername(),
		Permissions: perms,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken           string        `json:"accessToken"`
	RefreshToken          string        `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time     `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time     `json:"refreshTokenExpiresAt"`
	TokenType             string        `json:"tokenType"`
	User                  *UserResponse `json:"user,omitempty"`
}
