package identity

import (
	"context"
	"errors"
	"time"

	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the account locks
	LockDuration     time.Duration // how long a locked account stays locked
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")

// AuthService handles login, token refresh and the signed-in user
type AuthService struct {
	userRepo    identity.UserRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	config      AuthServiceConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		revocations: revocations,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// Login authenticates a user and returns a token pair carrying the user's permissions
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.findForLogin(ctx, req)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", req.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.CanLogin(now) {
		s.logger.Warn("Login for disabled account",
			zap.String("username", user.Username),
			zap.String("status", string(user.Status)))
		if user.Status == identity.UserStatusLocked {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account is locked. Please try again later")
		}
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration, now)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after failed logins",
				zap.String("username", user.Username),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Too many failed login attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Username:    user.Username,
		Permissions: user.Permissions,
	})
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The tokens are valid either way; only the login stamp is lost.
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	userResp := ToUserResponse(user)
	resp := toTokenResponse(pair)
	resp.User = &userResp
	return resp, nil
}

func (s *AuthService) findForLogin(ctx context.Context, req LoginRequest) (*identity.User, error) {
	if req.TenantID != nil {
		return s.userRepo.FindByUsername(ctx, *req.TenantID, req.Username)
	}
	return s.userRepo.FindByUsernameAnyTenant(ctx, req.Username)
}

// Refresh rotates a refresh token: the presented token is revoked and a new pair is
// issued with the user's current permissions. A revoked token cannot be used twice.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		s.logger.Warn("Reuse of a revoked refresh token", zap.String("user_id", claims.UserID))
		return nil, tokenError(auth.ErrTokenBlacklisted)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	if revoked, err := s.revocations.IsUserRevoked(ctx, claims.UserID, claims.IssuedAt.Time); err != nil {
		return nil, err
	} else if revoked {
		return nil, tokenError(auth.ErrTokenBlacklisted)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "User no longer exists")
		}
		return nil, err
	}
	if !user.CanLogin(s.now()) {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Permissions)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, err
	}
	return toTokenResponse(pair), nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password and invalidates every token issued so far
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if err := s.revocations.RevokeUser(ctx, userID.String(), s.jwtService.GetAccessTokenExpiration()*2+24*time.Hour); err != nil {
		s.logger.Error("Failed to revoke tokens after password change", zap.Error(err))
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

// Logout revokes the access token in use and, when given, the refresh token of the session
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if access != nil {
		if err := s.revocations.Revoke(ctx, access.ID, access.GetRemainingTTL()); err != nil {
			return err
		}
	}
	if req.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		// An unusable refresh token needs no revocation.
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}

func toTokenResponse(pair *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

// tokenError maps JWT failures to an UNAUTHORIZED domain error so the client
// knows to sign in again
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(shared.CodeUnauthorized, "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(shared.CodeUnauthorized, "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError(shared.CodeUnauthorized, "Refresh token has been revoked")
	default:
		return shared.NewDomainError(shared.CodeUnauthorized, "Invalid refresh token")
	}
}
