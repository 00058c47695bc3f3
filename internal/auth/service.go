// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/staffhub/internal/platform/apperr"
	"github.com/taibuivan/staffhub/internal/platform/constants"
	"github.com/taibuivan/staffhub/internal/platform/sec"
	"github.com/taibuivan/staffhub/internal/platform/validate"
)

// Sentinel errors shared by all failure branches of an operation.
//
// # Enumeration Resistance
//
// Login and refresh failures are deliberately undifferentiated: unknown
// email, federated-only account, and digest mismatch all surface as the exact
// same error value, so a caller cannot probe which accounts exist. The same
// single value is reused across branches to guarantee byte-identical
// responses.
var (
	ErrInvalidCredentials  = apperr.Unauthorized("Invalid credentials")
	ErrInvalidRefreshToken = apperr.Unauthorized("Invalid or expired refresh token")
	ErrInvalidResetToken   = apperr.Unauthorized("Invalid or expired reset token")
)

// TokenProvider defines the contract for generating and checking security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed short-lived JWT embedding the
	// user id and a snapshot of the role.
	GenerateAccessToken(userID int, role string) (string, error)

	// GenerateRefreshToken creates a signed long-lived JWT embedding only
	// the user id, returning the token and its expiry.
	GenerateRefreshToken(userID int) (string, time.Time, error)

	// VerifyRefreshToken cryptographically validates a refresh token string.
	VerifyRefreshToken(token string) (*sec.RefreshClaims, error)
}

// AccessRecorder appends access-log entries. Implementations must be
// best-effort: recording must never fail the calling operation.
type AccessRecorder interface {
	Record(ctx context.Context, actorID int, action, detail, ipAddress, userAgent string)
}

// Service implements the authentication and account administration use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users             UserRepository
	refreshTokens     RefreshTokenRepository
	resetTokens       ResetTokenRepository
	tokens            TokenProvider
	audit             AccessRecorder
	logger            *slog.Logger
	insecureDemoReset bool
}

// NewService constructs a new auth [Service] with the necessary dependencies.
func NewService(
	users UserRepository,
	refreshTokens RefreshTokenRepository,
	resetTokens ResetTokenRepository,
	tokens TokenProvider,
	audit AccessRecorder,
	logger *slog.Logger,
	insecureDemoReset bool,
) *Service {
	return &Service{
		users:             users,
		refreshTokens:     refreshTokens,
		resetTokens:       resetTokens,
		tokens:            tokens,
		audit:             audit,
		logger:            logger,
		insecureDemoReset: insecureDemoReset,
	}
}

// Session represents a successfully established authentication session.
type Session struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// issueSession mints an access/refresh token pair for the user and persists
// the refresh token row. Prior refresh tokens are left untouched: every
// login adds a parallel session rather than replacing the previous one.
func (service *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, expiresAt, err := service.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	row := &RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		Revoked:   false,
	}
	if err := service.refreshTokens.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email         string
	Password      string
	RequestedRole string
	DisplayName   string
	IPAddress     string
	UserAgent     string
}

// Register validates, hashes, and persists a brand new user account, then
// opens an authenticated session for it.
//
// # Business Rules
//   - Emails must be unique ([apperr.Conflict] otherwise).
//   - The requested role is clamped to the registration allow-list;
//     unrecognized values silently downgrade to employee (fail-safe default).
//   - The plain-text password never leaves this method.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	// Return a client-safe Conflict error when the email is taken.
	_, err := service.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.ClampRegisterable(input.RequestedRole),
		Provider:     ProviderLocal,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.audit.Record(ctx, user.ID, "auth.register", user.Email, input.IPAddress, input.UserAgent)

	// ── 5. Session Issuance ───────────────────────────────────────────────

	return service.issueSession(ctx, user)
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// Login validates user credentials and issues security tokens.
//
// # Flow
//  1. Lookup user by email.
//  2. Verify password hash using Bcrypt (an empty hash — federated account —
//     never verifies).
//  3. Mint an access/refresh token pair and persist the refresh row.
//
// All failure modes return [ErrInvalidCredentials] unchanged.
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time; the empty-hash short circuit only
	// fires for accounts that have no password at all.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// ── 3. Session Issuance ───────────────────────────────────────────────

	session, err := service.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	service.audit.Record(ctx, user.ID, "auth.login", user.Email, input.IPAddress, input.UserAgent)

	return session, nil
}

// FederatedLoginInput carries the identity asserted by an external provider.
type FederatedLoginInput struct {
	Email       string
	DisplayName string
	ProviderID  string
	IPAddress   string
	UserAgent   string
}

// FederatedLogin signs in (or enrolls) an account backed by an external
// identity assertion.
//
// # Behavior
//   - First sight of an email creates a password-less employee-role account
//     marked provider=google.
//   - An existing account is reused as-is, regardless of its original
//     provider or role — the operation is idempotent.
//   - The only failure mode for valid assertions is a missing email.
func (service *Service) FederatedLogin(ctx context.Context, input FederatedLoginInput) (*Session, error) {
	if input.Email == "" {
		return nil, validate.RequiredError("email", "is required")
	}

	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		// ── Enrollment ────────────────────────────────────────────────────
		var providerID *string
		if input.ProviderID != "" {
			providerID = &input.ProviderID
		}

		user = &User{
			Email:        input.Email,
			PasswordHash: "", // unusable: federated accounts never pass password login
			DisplayName:  input.DisplayName,
			Role:         sec.RoleEmployee,
			Provider:     ProviderGoogle,
			ProviderID:   providerID,
		}
		if err := service.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("auth_service_federated_enroll_failed: %w", err)
		}
	}

	session, err := service.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	service.audit.Record(ctx, user.ID, "auth.federated_login", user.Email, input.IPAddress, input.UserAgent)

	return session, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
//
// The new access token embeds the *current persisted* role of the owning
// user, not any role snapshot carried elsewhere — this is the only point
// where a role change takes effect for a live session without re-login.
//
// Missing row, revoked row, and cryptographic failure (expired or tampered)
// all map to the single [ErrInvalidRefreshToken].
func (service *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	// ── 1. Storage Lookup ─────────────────────────────────────────────────

	row, err := service.refreshTokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if row.Revoked {
		return "", ErrInvalidRefreshToken
	}

	// ── 2. Cryptographic Verification ─────────────────────────────────────

	// Signature and expiry are validated independently of the stored row.
	if _, err := service.tokens.VerifyRefreshToken(refreshToken); err != nil {
		return "", ErrInvalidRefreshToken
	}

	// ── 3. Re-read Owner ──────────────────────────────────────────────────

	user, err := service.users.FindByID(ctx, row.UserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	// ── 4. Mint ───────────────────────────────────────────────────────────

	accessToken, err := service.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_mint_failed: %w", err)
	}

	return accessToken, nil
}

// Logout permanently revokes the presented refresh token.
//
// Idempotent: an unknown or already-revoked token is a silent no-op. Already
// issued access tokens cannot be invalidated and expire naturally.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := service.refreshTokens.RevokeByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.audit.Record(ctx, 0, "auth.logout", "", "", "")
	return nil
}

// PasswordChangeResult is the soft outcome of a change-password attempt.
type PasswordChangeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChangePassword replaces the caller's password after verifying the current one.
//
// Failure to verify is a soft result, not an error: the HTTP layer returns
// 200 with success=false. Existing refresh tokens are deliberately left
// valid — the caller proved possession of the current password, so the
// session-fixation exposure is accepted for this self-service path.
func (service *Service) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) (*PasswordChangeResult, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return &PasswordChangeResult{Success: false, Message: "Current password is incorrect"}, nil
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return nil, err
	}

	service.audit.Record(ctx, userID, "auth.password_changed", "", "", "")

	return &PasswordChangeResult{Success: true, Message: "Password updated"}, nil
}

// ForgotPassword starts the reset flow for the given email.
//
// # Enumeration Resistance
//
// The outcome is identical whether or not the account exists; the reset
// token is only ever observable through the volatile token store (and the
// debug log in development). No delivery channel is wired by design.
func (service *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email: behave exactly like the success path.
		return nil
	}

	token, err := sec.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(ctx, token, user.ID, constants.ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_reset_token_store_failed: %w", err)
	}

	service.logger.Debug("reset_token_issued",
		slog.Int("user_id", user.ID),
		slog.String("token", token),
	)

	return nil
}

// ResetPasswordInput carries one of two mutually exclusive proof modes.
type ResetPasswordInput struct {
	Token       string
	Email       string
	NewPassword string
}

// ResetPassword completes the reset flow.
//
// The default path consumes a single-use reset token and revokes every
// refresh token of the account. The legacy mode — email plus new password
// with no possession proof — only functions when the server was started with
// INSECURE_DEMO_RESET=true, and shares the enumeration-resistant outcome of
// [ForgotPassword].
func (service *Service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	switch {
	case input.Token != "":
		return service.resetWithToken(ctx, input.Token, input.NewPassword)

	case service.insecureDemoReset && input.Email != "":
		return service.resetInsecure(ctx, input.Email, input.NewPassword)

	default:
		return validate.RequiredError("token", "Reset token is required")
	}
}

func (service *Service) resetWithToken(ctx context.Context, token, newPassword string) error {
	userID, err := service.resetTokens.Get(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return err
	}

	// Single use: the token dies with the reset, and every open session with it.
	if err := service.resetTokens.Delete(ctx, token); err != nil {
		service.logger.Warn("reset_token_delete_failed", slog.Any("error", err))
	}
	if err := service.refreshTokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	service.audit.Record(ctx, userID, "auth.password_reset", "", "", "")
	return nil
}

func (service *Service) resetInsecure(ctx context.Context, email, newPassword string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		// Identical outcome for unknown accounts.
		return nil
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return err
	}

	service.logger.Warn("insecure_demo_reset_used", slog.Int("user_id", user.ID))
	service.audit.Record(ctx, user.ID, "auth.password_reset_insecure", "", "", "")
	return nil
}

// Me returns the account behind the authenticated caller's claims.
func (service *Service) Me(ctx context.Context, userID int) (*User, error) {
	return service.users.FindByID(ctx, userID)
}

// EmailForUser returns the account email for a user id. Domain packages that
// key self-service records by email use this to resolve the caller.
func (service *Service) EmailForUser(ctx context.Context, userID int) (string, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// # User Administration

// ListUsers returns a page of accounts with the total count.
func (service *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return service.users.List(ctx, limit, offset)
}

// UpdateUserRole changes an account's role tier.
//
// The legacy admin tier is not grantable. Already-issued access tokens keep
// their snapshotted role until natural expiry or refresh.
func (service *Service) UpdateUserRole(ctx context.Context, actorID, userID int, role string) (*User, error) {
	validator := &validate.Validator{}
	validator.OneOf("role", role,
		string(sec.RoleDirector), string(sec.RoleManager), string(sec.RoleEmployee))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := service.users.UpdateRole(ctx, userID, sec.Role(role)); err != nil {
		return nil, err
	}

	service.audit.Record(ctx, actorID, "user.role_changed", fmt.Sprintf("user=%d role=%s", userID, role), "", "")

	return service.users.FindByID(ctx, userID)
}

// DeleteUser removes an account and revokes its refresh tokens.
func (service *Service) DeleteUser(ctx context.Context, actorID, userID int) error {
	if _, err := service.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := service.refreshTokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := service.users.Delete(ctx, userID); err != nil {
		return err
	}

	service.logger.Warn("user_deleted", slog.Int("user_id", userID), slog.Int("actor_id", actorID))
	service.audit.Record(ctx, actorID, "user.deleted", fmt.Sprintf("user=%d", userID), "", "")
	return nil
}
