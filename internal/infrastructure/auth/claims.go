package auth

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates short-lived access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the payload of every POS token. Refresh tokens leave Permissions
// empty; they are reloaded from the user record on refresh.
type Claims struct {
	jwt.RegisteredClaims
	TenantID     string    `json:"tenant_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Permissions  []string  `json:"permissions,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// HasPermission follows identity.Grants, so "*" and "resource:*" match
func (c *Claims) HasPermission(permission string) bool {
	return identity.Grants(c.Permissions, permission)
}

func (c *Claims) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if identity.Grants(c.Permissions, p) {
			return true
		}
	}
	return false
}

func (c *Claims) HasAllPermissions(permissions ...string) bool {
	for _, p := range permissions {
		if !identity.Grants(c.Permissions, p) {
			return false
		}
	}
	return true
}

// GetRemainingTTL is how long the token stays valid, never negative. Revoked
// token ids are remembered for this long.
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
