// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffhub/internal/auth"
	"github.com/taibuivan/staffhub/internal/platform/constants"
	"github.com/taibuivan/staffhub/internal/platform/middleware"
	"github.com/taibuivan/staffhub/internal/platform/sec"
)

// newAuthServer mounts the auth and user routers behind the real
// authentication middleware, mirroring the production composition.
func newAuthServer(t *testing.T) (*httptest.Server, *authFixture) {
	t.Helper()

	f := newAuthFixture(t, false)
	handler := auth.NewHandler(f.service, nil)

	verifier := sec.NewTokenService(
		"test-access-secret", "test-refresh-secret", "staffhub.test",
		constants.AccessTokenTTL, constants.RefreshTokenTTL,
	)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(verifier))
	router.Mount("/auth", handler.Routes())
	router.Mount("/users", handler.UserRoutes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, f
}

func postJSON(t *testing.T, url, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	return doJSON(t, "POST", url, token, payload)
}

func doJSON(t *testing.T, method, url, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response, raw
}

// sessionFromResponse decodes the session envelope of register/login.
func sessionFromResponse(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.NotNil(t, envelope.Data)
	return envelope.Data
}

/*
TestHTTP_RegisterLoginFlow covers the minimal-input happy path: a short
single-letter mailbox and a seven-character password are both acceptable.
*/
func TestHTTP_RegisterLoginFlow(t *testing.T) {
	server, _ := newAuthServer(t)

	response, raw := postJSON(t, server.URL+"/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "pass123",
	})
	require.Equal(t, http.StatusCreated, response.StatusCode, string(raw))

	session := sessionFromResponse(t, raw)
	assert.NotEmpty(t, session["access_token"])
	assert.NotEmpty(t, session["refresh_token"])
	assert.Equal(t, "Bearer", session["token_type"])

	user, ok := session["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "employee", user["role"])

	response, raw = postJSON(t, server.URL+"/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "pass123",
	})
	require.Equal(t, http.StatusOK, response.StatusCode, string(raw))

	// The issued token works against a protected route.
	login := sessionFromResponse(t, raw)
	accessToken, _ := login["access_token"].(string)

	response, raw = doJSON(t, "GET", server.URL+"/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusOK, response.StatusCode, string(raw))
}

/*
TestHTTP_LoginFailuresAreIdentical asserts byte-identical error responses for
unknown email versus wrong password.
*/
func TestHTTP_LoginFailuresAreIdentical(t *testing.T) {
	server, f := newAuthServer(t)
	f.register(t, "known@staffhub.app", "correct-password", "employee")

	unknownResponse, unknownBody := postJSON(t, server.URL+"/auth/login", "", map[string]string{
		"email":    "nobody@staffhub.app",
		"password": "whatever",
	})
	wrongResponse, wrongBody := postJSON(t, server.URL+"/auth/login", "", map[string]string{
		"email":    "known@staffhub.app",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknownResponse.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, wrongResponse.StatusCode)
	assert.Equal(t, string(unknownBody), string(wrongBody))
	assert.Contains(t, string(unknownBody), "Invalid credentials")
}

/*
TestHTTP_ForgotPasswordIdenticalOutcome asserts the enumeration-resistant
response for known and unknown accounts.
*/
func TestHTTP_ForgotPasswordIdenticalOutcome(t *testing.T) {
	server, f := newAuthServer(t)
	f.register(t, "known@staffhub.app", "password-1", "employee")

	knownResponse, knownBody := postJSON(t, server.URL+"/auth/forgot-password", "", map[string]string{
		"email": "known@staffhub.app",
	})
	unknownResponse, unknownBody := postJSON(t, server.URL+"/auth/forgot-password", "", map[string]string{
		"email": "ghost@staffhub.app",
	})

	assert.Equal(t, http.StatusOK, knownResponse.StatusCode)
	assert.Equal(t, http.StatusOK, unknownResponse.StatusCode)
	assert.Equal(t, string(knownBody), string(unknownBody))
}

/*
TestHTTP_RefreshAndLogout exercises the token body transport: refresh mints a
new access token, logout revokes, and a revoked token is denied.
*/
func TestHTTP_RefreshAndLogout(t *testing.T) {
	server, f := newAuthServer(t)
	session := f.register(t, "cycle@staffhub.app", "password-1", "employee")

	response, raw := postJSON(t, server.URL+"/auth/refresh", "", map[string]string{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, response.StatusCode, string(raw))

	refreshed := sessionFromResponse(t, raw)
	assert.NotEmpty(t, refreshed["access_token"])

	response, _ = postJSON(t, server.URL+"/auth/logout", "", map[string]string{
		"refresh_token": session.RefreshToken,
	})
	assert.Equal(t, http.StatusNoContent, response.StatusCode)

	response, raw = postJSON(t, server.URL+"/auth/refresh", "", map[string]string{
		"refresh_token": session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Contains(t, string(raw), "Invalid or expired refresh token")

	// Missing token is rejected before any storage lookup.
	response, _ = postJSON(t, server.URL+"/auth/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

/*
TestHTTP_ChangePassword_SoftFailure verifies that a wrong current password
returns 200 with success=false rather than an HTTP error.
*/
func TestHTTP_ChangePassword_SoftFailure(t *testing.T) {
	server, f := newAuthServer(t)
	session := f.register(t, "soft@staffhub.app", "old-password", "employee")

	response, raw := postJSON(t, server.URL+"/auth/change-password", session.AccessToken, map[string]string{
		"current_password": "wrong",
		"new_password":     "new-password",
	})
	require.Equal(t, http.StatusOK, response.StatusCode, string(raw))

	var envelope struct {
		Data auth.PasswordChangeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.False(t, envelope.Data.Success)
	assert.Equal(t, "Current password is incorrect", envelope.Data.Message)

	// Unauthenticated callers never reach the service.
	response, _ = postJSON(t, server.URL+"/auth/change-password", "", map[string]string{
		"current_password": "old-password",
		"new_password":     "new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

/*
TestHTTP_UserAdministrationGates verifies the tier gates on the /users
surface: listing needs manager, role changes and deletion need director.
*/
func TestHTTP_UserAdministrationGates(t *testing.T) {
	server, f := newAuthServer(t)

	employee := f.register(t, "staff@staffhub.app", "password-1", "employee")
	manager := f.register(t, "manager@staffhub.app", "password-1", "manager")
	director := f.register(t, "director@staffhub.app", "password-1", "director")

	// Employee tier is rejected everywhere on this surface.
	response, raw := doJSON(t, "GET", server.URL+"/users/", employee.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Contains(t, string(raw), "Manager or Director access required")

	// Manager can list but not administer.
	response, _ = doJSON(t, "GET", server.URL+"/users/", manager.AccessToken, nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	roleURL := fmt.Sprintf("%s/users/%d/role", server.URL, employee.User.ID)
	response, raw = doJSON(t, "PATCH", roleURL, manager.AccessToken, map[string]string{"role": "manager"})
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Contains(t, string(raw), "Director access required")

	// Director can do both.
	response, raw = doJSON(t, "PATCH", roleURL, director.AccessToken, map[string]string{"role": "manager"})
	require.Equal(t, http.StatusOK, response.StatusCode, string(raw))

	response, _ = doJSON(t, "DELETE", fmt.Sprintf("%s/users/%d", server.URL, employee.User.ID), director.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
}
