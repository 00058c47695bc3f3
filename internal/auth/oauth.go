// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/taibuivan/staffhub/internal/platform/sec"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthManager drives the server-side Google authorization-code flow.
//
// It is optional wiring: when the deployment has no client credentials the
// manager is nil and the federated endpoints that depend on it are not
// mounted. The trusted-assertion endpoint works without it.
type OAuthManager struct {
	config *oauth2.Config
	client *http.Client
}

// NewOAuthManager builds a Google OAuth configuration, or returns nil when
// the client credentials are absent.
func NewOAuthManager(clientID, clientSecret, redirectURL string) *OAuthManager {
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &OAuthManager{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// StateToken returns a fresh CSRF state parameter for the authorization redirect.
func (manager *OAuthManager) StateToken() (string, error) {
	return sec.GenerateSecureToken(32)
}

// AuthURL builds the Google consent-screen URL for the given state.
func (manager *OAuthManager) AuthURL(state string) string {
	return manager.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GoogleIdentity is the subset of the userinfo response the service consumes.
type GoogleIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Exchange redeems an authorization code and fetches the owner's identity.
func (manager *OAuthManager) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := manager.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth_exchange_failed: %w", err)
	}

	return manager.fetchIdentity(ctx, token)
}

func (manager *OAuthManager) fetchIdentity(ctx context.Context, token *oauth2.Token) (*GoogleIdentity, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("oauth_userinfo_request_failed: %w", err)
	}
	token.SetAuthHeader(request)

	response, err := manager.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("oauth_userinfo_fetch_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth_userinfo_status: %d", response.StatusCode)
	}

	identity := &GoogleIdentity{}
	if err := json.NewDecoder(response.Body).Decode(identity); err != nil {
		return nil, fmt.Errorf("oauth_userinfo_decode_failed: %w", err)
	}

	return identity, nil
}
