// Package identity holds the staff accounts that sign in to the POS and the
// permissions they carry.
package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// PasswordCost is the bcrypt cost used for new hashes
var PasswordCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// User is a staff account of one shop
type User struct {
	shared.TenantAggregateRoot
	Username       string     `gorm:"type:varchar(100);not null;index"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	DisplayName    string     `gorm:"type:varchar(200)"`
	Permissions    []string   `gorm:"serializer:json;type:text"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, username, password, displayName string, permissions []string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		PasswordHash:        hash,
		DisplayName:         strings.TrimSpace(displayName),
		Status:              UserStatusActive,
	}
	if err := u.SetPermissions(permissions); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPermissions replaces the permission list. Each entry is "resource:action" or "*".
func (u *User) SetPermissions(permissions []string) error {
	clean := make([]string, 0, len(permissions))
	for _, p := range permissions {
		p = strings.ToLower(strings.TrimSpace(p))
		if !IsValidPermission(p) {
			return shared.NewValidationError("invalid permission %q", p)
		}
		if !slices.Contains(clean, p) {
			clean = append(clean, p)
		}
	}
	slices.Sort(clean)
	u.Permissions = clean
	return nil
}

// HasPermission reports whether the user holds the permission directly or via a wildcard
func (u *User) HasPermission(permission string) bool {
	return Grants(u.Permissions, permission)
}

// ChangePassword replaces the password after checking the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError(shared.CodeUnauthorized, "current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	return nil
}

// VerifyPassword checks a plain-text password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLoginSuccess stamps the login and clears failed attempts
func (u *User) RecordLoginSuccess(at time.Time) {
	u.LastLoginAt = &at
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and locks the account after maxAttempts.
// It returns true when the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockFor time.Duration, at time.Time) bool {
	u.FailedAttempts++
	u.IncrementVersion()
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := at.Add(lockFor)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		return true
	}
	return false
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.IncrementVersion()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
}

// CanLogin is false for deactivated accounts and for locks that have not expired
func (u *User) CanLogin(now time.Time) bool {
	switch u.Status {
	case UserStatusDeactivated:
		return false
	case UserStatusLocked:
		return u.LockedUntil != nil && now.After(*u.LockedUntil)
	}
	return true
}

// DisplayNameOrUsername returns display name if set, otherwise username
func (u *User) DisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 100 {
		return shared.NewValidationError("username must be 3 to 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewValidationError("username can only contain letters, numbers, underscores, hyphens and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 72 {
		return shared.NewValidationError("password must be 8 to 72 characters")
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return shared.NewValidationError("password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
