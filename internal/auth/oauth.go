package auth

import (
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider names the social sign-in providers the auth page offers.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderGitHub  Provider = "github"
	ProviderTwitter Provider = "twitter"
)

// twitterEndpoint — x/oauth2 ships endpoint packages for GitHub and Google
// but not Twitter's v2 flow, so it is declared here.
var twitterEndpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

// OAuthProvider wraps golang.org/x/oauth2 for one provider's Authorization
// Code flow: build the authorize URL (with CSRF state), then exchange the
// callback code for a token server-to-server, so the client secret and the
// access token never touch the browser.
type OAuthProvider struct {
	name   Provider
	config *oauth2.Config
}

// NewOAuthProvider builds the oauth2 config for a named provider.
// callbackURL must exactly match the redirect URL registered with the
// provider.
func NewOAuthProvider(name Provider, clientID, clientSecret, callbackURL string) (*OAuthProvider, error) {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
	}
	switch name {
	case ProviderGitHub:
		cfg.Endpoint = github.Endpoint
		cfg.Scopes = []string{"read:user", "user:email"}
	case ProviderGoogle:
		cfg.Endpoint = google.Endpoint
		cfg.Scopes = []string{"openid", "email", "profile"}
	case ProviderTwitter:
		cfg.Endpoint = twitterEndpoint
		cfg.Scopes = []string{"users.read", "tweet.read"}
	default:
		return nil, fmt.Errorf("auth: unknown OAuth provider %q", name)
	}
	return &OAuthProvider{name: name, config: cfg}, nil
}

// Name returns the provider this config belongs to.
func (p *OAuthProvider) Name() Provider {
	return p.name
}

// AuthURL returns the provider's authorization URL for the given CSRF state.
// The caller stores the state in a short-lived cookie and verifies it on
// callback.
func (p *OAuthProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}
