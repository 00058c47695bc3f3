// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffhub/internal/auth"
	"github.com/taibuivan/staffhub/internal/platform/apperr"
	"github.com/taibuivan/staffhub/internal/platform/sec"
)

// ── In-memory fakes ──────────────────────────────────────────────────────

type fakeUserRepo struct {
	users  map[int]*auth.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*auth.User{}, nextID: 1}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	result := make([]*auth.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		result = append(result, &copied)
	}
	return result, len(r.users), nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID int, role sec.Role) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int, newHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(r.users, id)
	return nil
}

type fakeRefreshRepo struct {
	rows map[string]*auth.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: map[string]*auth.RefreshToken{}}
}

func (r *fakeRefreshRepo) Create(_ context.Context, token *auth.RefreshToken) error {
	copied := *token
	r.rows[token.Token] = &copied
	return nil
}

func (r *fakeRefreshRepo) FindByToken(_ context.Context, token string) (*auth.RefreshToken, error) {
	row, ok := r.rows[token]
	if !ok {
		return nil, apperr.NotFound("Refresh token")
	}
	copied := *row
	return &copied, nil
}

func (r *fakeRefreshRepo) RevokeByToken(_ context.Context, token string) error {
	if row, ok := r.rows[token]; ok {
		row.Revoked = true
	}
	return nil
}

func (r *fakeRefreshRepo) RevokeAllForUser(_ context.Context, userID int) error {
	for _, row := range r.rows {
		if row.UserID == userID {
			row.Revoked = true
		}
	}
	return nil
}

type fakeResetRepo struct {
	tokens map[string]int
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]int{}}
}

func (r *fakeResetRepo) Set(_ context.Context, token string, userID int, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeResetRepo) Get(_ context.Context, token string) (int, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return 0, apperr.NotFound("Reset token is invalid or expired")
	}
	return userID, nil
}

func (r *fakeResetRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeRecorder struct {
	actions []string
}

func (r *fakeRecorder) Record(_ context.Context, _ int, action, _, _, _ string) {
	r.actions = append(r.actions, action)
}

// ── Harness ──────────────────────────────────────────────────────────────

type authFixture struct {
	service *auth.Service
	users   *fakeUserRepo
	refresh *fakeRefreshRepo
	resets  *fakeResetRepo
	audit   *fakeRecorder
}

func newAuthFixture(t *testing.T, insecureDemoReset bool) *authFixture {
	t.Helper()

	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resets := newFakeResetRepo()
	audit := &fakeRecorder{}

	tokens := sec.NewTokenService(
		"test-access-secret", "test-refresh-secret", "staffhub.test",
		15*time.Minute, 7*24*time.Hour,
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &authFixture{
		service: auth.NewService(users, refresh, resets, tokens, audit, logger, insecureDemoReset),
		users:   users,
		refresh: refresh,
		resets:  resets,
		audit:   audit,
	}
}

func (f *authFixture) register(t *testing.T, email, password, role string) *auth.Session {
	t.Helper()

	session, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:         email,
		Password:      password,
		RequestedRole: role,
		DisplayName:   "Test User",
	})
	require.NoError(t, err)
	return session
}

// ── Tests ────────────────────────────────────────────────────────────────

/*
TestService_Register_LoginRoundTrip verifies that a registered account can
log in with the same credentials and keeps its role.
*/
func TestService_Register_LoginRoundTrip(t *testing.T) {
	f := newAuthFixture(t, false)

	registered := f.register(t, "lead@staffhub.app", "open-sesame", "manager")
	assert.Equal(t, sec.RoleManager, registered.User.Role)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "lead@staffhub.app",
		Password: "open-sesame",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)
	assert.Equal(t, sec.RoleManager, session.User.Role)
}

/*
TestService_Register_DuplicateEmail verifies the conflict on re-registration.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "dup@staffhub.app", "password-1", "employee")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "dup@staffhub.app",
		Password: "password-2",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, "Email is already registered", ae.Message)
}

/*
TestService_Register_RoleClamp verifies that unrecognized and legacy roles
downgrade to employee during registration.
*/
func TestService_Register_RoleClamp(t *testing.T) {
	f := newAuthFixture(t, false)

	for _, requested := range []string{"admin", "superuser", ""} {
		session := f.register(t, requested+"x@staffhub.app", "password-1", requested)
		assert.Equal(t, sec.RoleEmployee, session.User.Role, "requested=%q", requested)
	}

	session := f.register(t, "boss@staffhub.app", "password-1", "director")
	assert.Equal(t, sec.RoleDirector, session.User.Role)
}

/*
TestService_Login_IndistinguishableFailures verifies that unknown email,
wrong password, and a federated (password-less) account all return the exact
same error value.
*/
func TestService_Login_IndistinguishableFailures(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "known@staffhub.app", "correct-password", "employee")

	_, err := f.service.FederatedLogin(context.Background(), auth.FederatedLoginInput{
		Email: "sso-only@staffhub.app",
	})
	require.NoError(t, err)

	attempts := []auth.LoginInput{
		{Email: "nobody@staffhub.app", Password: "whatever"},
		{Email: "known@staffhub.app", Password: "wrong-password"},
		{Email: "sso-only@staffhub.app", Password: "any-password"},
	}

	for _, attempt := range attempts {
		_, err := f.service.Login(context.Background(), attempt)
		assert.Same(t, auth.ErrInvalidCredentials, apperr.As(err), "email=%s", attempt.Email)
	}
}

/*
TestService_Refresh_MintsCurrentRole verifies that the refresh path re-reads
the account so a role change takes effect on the next access token.
*/
func TestService_Refresh_MintsCurrentRole(t *testing.T) {
	f := newAuthFixture(t, false)
	session := f.register(t, "promo@staffhub.app", "password-1", "employee")

	_, err := f.service.UpdateUserRole(context.Background(), 99, session.User.ID, "manager")
	require.NoError(t, err)

	accessToken, err := f.service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)

	verifier := sec.NewTokenService(
		"test-access-secret", "test-refresh-secret", "staffhub.test",
		15*time.Minute, 7*24*time.Hour,
	)
	claims, err := verifier.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, session.User.ID, claims.UserID)
}

/*
TestService_Refresh_AfterLogout verifies that a revoked refresh token is
denied with the shared sentinel error.
*/
func TestService_Refresh_AfterLogout(t *testing.T) {
	f := newAuthFixture(t, false)
	session := f.register(t, "bye@staffhub.app", "password-1", "employee")

	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))

	_, err := f.service.Refresh(context.Background(), session.RefreshToken)
	assert.Same(t, auth.ErrInvalidRefreshToken, apperr.As(err))

	// Logout is idempotent.
	assert.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	assert.NoError(t, f.service.Logout(context.Background(), "never-issued"))
}

/*
TestService_Refresh_UnknownToken verifies unknown and tampered tokens share
the sentinel error.
*/
func TestService_Refresh_UnknownToken(t *testing.T) {
	f := newAuthFixture(t, false)

	_, err := f.service.Refresh(context.Background(), "not-a-token")
	assert.Same(t, auth.ErrInvalidRefreshToken, apperr.As(err))
}

/*
TestService_FederatedLogin_Idempotent verifies enrollment on first sight and
plain reuse afterwards.
*/
func TestService_FederatedLogin_Idempotent(t *testing.T) {
	f := newAuthFixture(t, false)

	first, err := f.service.FederatedLogin(context.Background(), auth.FederatedLoginInput{
		Email:       "fed@staffhub.app",
		DisplayName: "Fed User",
		ProviderID:  "google-123",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleEmployee, first.User.Role)
	assert.Equal(t, auth.ProviderGoogle, first.User.Provider)

	second, err := f.service.FederatedLogin(context.Background(), auth.FederatedLoginInput{
		Email: "fed@staffhub.app",
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = f.service.FederatedLogin(context.Background(), auth.FederatedLoginInput{})
	assert.Error(t, err, "missing email is the only failure mode")
}

/*
TestService_ChangePassword verifies the soft-failure contract and that a
successful change does not revoke existing refresh tokens.
*/
func TestService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t, false)
	session := f.register(t, "chg@staffhub.app", "old-password", "employee")

	result, err := f.service.ChangePassword(context.Background(), session.User.ID, "wrong", "new-password")
	require.NoError(t, err, "verification failure is a result, not an error")
	assert.False(t, result.Success)
	assert.Equal(t, "Current password is incorrect", result.Message)

	result, err = f.service.ChangePassword(context.Background(), session.User.ID, "old-password", "new-password")
	require.NoError(t, err)
	assert.True(t, result.Success)

	// The old session survives a password change.
	_, err = f.service.Refresh(context.Background(), session.RefreshToken)
	assert.NoError(t, err)

	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Email:    "chg@staffhub.app",
		Password: "new-password",
	})
	assert.NoError(t, err)
}

/*
TestService_ResetPassword_TokenFlow walks forgot-password through to a
token-based reset and checks that every session of the account dies with it.
*/
func TestService_ResetPassword_TokenFlow(t *testing.T) {
	f := newAuthFixture(t, false)
	session := f.register(t, "reset@staffhub.app", "old-password", "employee")

	require.NoError(t, f.service.ForgotPassword(context.Background(), "reset@staffhub.app"))
	require.Len(t, f.resets.tokens, 1)

	var token string
	for issued := range f.resets.tokens {
		token = issued
	}

	err := f.service.ResetPassword(context.Background(), auth.ResetPasswordInput{
		Token:       token,
		NewPassword: "fresh-password",
	})
	require.NoError(t, err)

	// Token is single use.
	err = f.service.ResetPassword(context.Background(), auth.ResetPasswordInput{
		Token:       token,
		NewPassword: "another-password",
	})
	assert.Same(t, auth.ErrInvalidResetToken, apperr.As(err))

	// All prior sessions are revoked.
	_, err = f.service.Refresh(context.Background(), session.RefreshToken)
	assert.Same(t, auth.ErrInvalidRefreshToken, apperr.As(err))

	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Email:    "reset@staffhub.app",
		Password: "fresh-password",
	})
	assert.NoError(t, err)
}

/*
TestService_ForgotPassword_UnknownEmail verifies the silent success for
accounts that do not exist.
*/
func TestService_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t, false)

	assert.NoError(t, f.service.ForgotPassword(context.Background(), "ghost@staffhub.app"))
	assert.Empty(t, f.resets.tokens)
}

/*
TestService_ResetPassword_InsecureMode verifies the legacy email-based reset
is gated behind the demo flag.
*/
func TestService_ResetPassword_InsecureMode(t *testing.T) {
	locked := newAuthFixture(t, false)
	locked.register(t, "demo@staffhub.app", "old-password", "employee")

	err := locked.service.ResetPassword(context.Background(), auth.ResetPasswordInput{
		Email:       "demo@staffhub.app",
		NewPassword: "new-password",
	})
	require.Error(t, err, "email mode must be rejected when the flag is off")

	open := newAuthFixture(t, true)
	open.register(t, "demo@staffhub.app", "old-password", "employee")

	err = open.service.ResetPassword(context.Background(), auth.ResetPasswordInput{
		Email:       "demo@staffhub.app",
		NewPassword: "new-password",
	})
	require.NoError(t, err)

	_, err = open.service.Login(context.Background(), auth.LoginInput{
		Email:    "demo@staffhub.app",
		Password: "new-password",
	})
	assert.NoError(t, err)

	// Unknown email shares the silent success of forgot-password.
	err = open.service.ResetPassword(context.Background(), auth.ResetPasswordInput{
		Email:       "ghost@staffhub.app",
		NewPassword: "new-password",
	})
	assert.NoError(t, err)
}

/*
TestService_UpdateUserRole verifies the role allow-list for administration.
*/
func TestService_UpdateUserRole(t *testing.T) {
	f := newAuthFixture(t, false)
	session := f.register(t, "tier@staffhub.app", "password-1", "employee")

	updated, err := f.service.UpdateUserRole(context.Background(), 1, session.User.ID, "director")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleDirector, updated.Role)

	// The legacy admin tier is not grantable.
	_, err = f.service.UpdateUserRole(context.Background(), 1, session.User.ID, "admin")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = f.service.UpdateUserRole(context.Background(), 1, 999, "manager")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_DeleteUser verifies deletion revokes every session.
*/
func TestService_DeleteUser(t *testing.T) {
	f := newAuthFixture(t, false)
	session := f.register(t, "gone@staffhub.app", "password-1", "employee")

	require.NoError(t, f.service.DeleteUser(context.Background(), 1, session.User.ID))

	_, err := f.service.Me(context.Background(), session.User.ID)
	assert.Error(t, err)

	_, err = f.service.Refresh(context.Background(), session.RefreshToken)
	assert.Same(t, auth.ErrInvalidRefreshToken, apperr.As(err))
}
