package golem

import (
	"fmt"
	"net/url"
	"strings"
)

// KrakenBaseURL is the root of Twitch's v5 API: an authenticated GET against it
// describes the token that was used to make the request
const KrakenBaseURL = "https://api.twitch.tv/kraken"

// HelixValidateURL is the endpoint that replaced the kraken root for token
// introspection
const HelixValidateURL = "https://id.twitch.tv/oauth2/validate"

// Endpoints describes the set of URLs at which the identity provider exposes the
// authorization code flow
type Endpoints struct {
	// BaseURL is queried with an access token in order to resolve the user's name
	BaseURL string
	// AuthorizeURL is where we send the user's browser to grant us access
	AuthorizeURL string
	// TokenURL is where we exchange an authorization code for an access token
	TokenURL string
}

// KrakenEndpoints returns the provider endpoints rooted at the given base URL, with
// the authorize and token endpoints under /oauth2 as Twitch lays them out
func KrakenEndpoints(baseURL string) Endpoints {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return Endpoints{
		BaseURL:      baseURL,
		AuthorizeURL: baseURL + "/oauth2/authorize",
		TokenURL:     baseURL + "/oauth2/token",
	}
}

// WithOverrides returns a copy of e, replacing any endpoint for which a non-empty
// override is supplied
func (e Endpoints) WithOverrides(authorizeURL, tokenURL string) Endpoints {
	if authorizeURL != "" {
		e.AuthorizeURL = authorizeURL
	}
	if tokenURL != "" {
		e.TokenURL = tokenURL
	}
	return e
}

// Validate ensures that every endpoint is an absolute http(s) URL
func (e Endpoints) Validate() error {
	for name, value := range map[string]string{
		"base":      e.BaseURL,
		"authorize": e.AuthorizeURL,
		"token":     e.TokenURL,
	} {
		u, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid %s URL '%s': %w", name, value, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid %s URL '%s': scheme must be http or https", name, value)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid %s URL '%s': host is required", name, value)
		}
	}
	return nil
}
