package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists staff accounts. Usernames are unique per tenant.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	// FindByUsernameAnyTenant is used at login when no tenant is known yet
	FindByUsernameAnyTenant(ctx context.Context, username string) (*User, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *User) error
}
