package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"taskshare/internal/platform/config"
)

// FederatedProvider wraps the OAuth2 authorization-code flow used for
// federated sign-in. The provider's userinfo endpoint supplies the email and
// display name; everything else about the account stays local.
type FederatedProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
}

// NewFederatedProvider returns nil when no client is configured; federated
// sign-in is then disabled and password sign-in remains available.
func NewFederatedProvider(cfg config.FederatedConfig) *FederatedProvider {
	if cfg.ClientID == "" {
		return nil
	}
	return &FederatedProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// AuthCodeURL builds the provider URL the browser is sent to, with PKCE.
func (p *FederatedProvider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// GenerateVerifier returns a fresh PKCE verifier for one sign-in attempt.
func (p *FederatedProvider) GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// federatedIdentity is what the userinfo endpoint tells us about the caller.
type federatedIdentity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Exchange trades the authorization code for the caller's identity.
func (p *FederatedProvider) Exchange(ctx context.Context, code, verifier string) (*federatedIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	client := p.oauth.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var ident federatedIdentity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if ident.Email == "" {
		return nil, fmt.Errorf("userinfo missing email")
	}
	return &ident, nil
}
