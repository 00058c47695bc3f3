// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements accounts, credentials, and the token lifecycle for StaffHub.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the identity system.
// They have no dependencies on outer layers (HTTP, SQL); services orchestrate
// them through repository interfaces.
package auth

import (
	"time"

	"github.com/taibuivan/staffhub/internal/platform/sec"
)

// Identity providers accepted by the platform.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents a registered StaffHub account.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via Bcrypt exclusively by the auth Service.
//     It is empty for federated accounts, which can never pass password login.
//   - Role is one of the tiers defined in [sec.Role]; the legacy admin tier
//     is readable but never granted through registration.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	Role         sec.Role  `json:"role"`
	Provider     string    `json:"provider"`
	ProviderID   *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken represents a persisted long-lived credential.
//
// # Security Concept
//
// Access Tokens (JWT) are stateless and cannot be revoked before they expire.
// To mitigate this, StaffHub uses short-lived JWTs paired with long-lived
// refresh tokens stored in the database. When the JWT expires, the client
// presents the refresh token to mint a new one; revoking the row ends the
// session. Rows are never rotated — multiple valid tokens may coexist per
// user (one per login) — and logout flips Revoked rather than deleting.
type RefreshToken struct {
	ID        int       `json:"id"`
	Token     string    `json:"-"` // The signed token string. Omitted for security.
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
