// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/staffhub/internal/platform/sec"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for StaffHub is PostgreSQL ([PostgresUserRepository]).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id int) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns a wrapped Conflict error if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// List returns a page of accounts ordered by creation time (newest first)
	// together with the total count.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)

	// UpdateRole replaces only the account's role tier.
	// Already-issued access tokens keep their snapshotted role until expiry.
	UpdateRole(ctx context.Context, userID int, role sec.Role) error

	// UpdatePassword replaces only the user's password hash.
	// This is separate from a general update to prevent accidental overwrites
	// during unrelated profile changes.
	UpdatePassword(ctx context.Context, userID int, newHash string) error

	// Delete removes the account row. Dependent domain rows cascade via
	// foreign keys in the schema.
	Delete(ctx context.Context, id int) error
}

// RefreshTokenRepository defines the data access contract for refresh tokens.
//
// # Domain Ownership
//
// This is kept alongside [UserRepository] because refresh tokens are owned
// entirely by the accounts domain, despite serving authentication security.
type RefreshTokenRepository interface {
	// Create persists a freshly minted refresh token row.
	Create(ctx context.Context, token *RefreshToken) error

	// FindByToken returns the row matching the exact token string, whatever
	// its revocation state. The service layer decides usability.
	//
	// Returns [apperr.NotFound] if no row matches.
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)

	// RevokeByToken marks every row matching the token string as revoked.
	// Idempotent: revoking an unknown or already-revoked token is a no-op.
	RevokeByToken(ctx context.Context, token string) error

	// RevokeAllForUser revokes every active token belonging to the user.
	// Used for security events (password reset, account deletion).
	RevokeAllForUser(ctx context.Context, userID int) error
}

// ResetTokenRepository defines the contract for storing volatile password reset tokens.
type ResetTokenRepository interface {
	// Set stores a reset token associated with a userID for a limited duration.
	Set(ctx context.Context, token string, userID int, ttl time.Duration) error

	// Get retrieves the userID associated with a given reset token.
	Get(ctx context.Context, token string) (int, error)

	// Delete removes a reset token after successful use.
	Delete(ctx context.Context, token string) error
}
