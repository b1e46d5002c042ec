package identity

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EnsureAdmin creates the configured administrator when no user exists yet.
// It returns the created user, or nil when accounts were already present.
func EnsureAdmin(ctx context.Context, users identity.UserRepository, cfg config.AdminConfig, logger *zap.Logger) (*identity.User, error) {
	count, err := users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	tenantID := uuid.New()
	if cfg.TenantID != "" {
		if tenantID, err = uuid.Parse(cfg.TenantID); err != nil {
			return nil, err
		}
	}
	admin, err := identity.NewUser(tenantID, cfg.Username, cfg.Password, cfg.DisplayName, []string{identity.PermissionAll})
	if err != nil {
		return nil, err
	}
	if err := users.Save(ctx, admin); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("Created administrator account",
			zap.String("username", admin.Username),
			zap.String("tenant_id", tenantID.String()))
	}
	return admin, nil
}
