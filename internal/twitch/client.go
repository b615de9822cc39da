package twitch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golden-vcr/golem"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every individual request made to the provider
const DefaultTimeout = 5 * time.Second

const (
	IdentityAPIKraken = "kraken"
	IdentityAPIHelix  = "helix"
)

var (
	ErrExchangeFailed = errors.New("token exchange failed")
	ErrResolveFailed  = errors.New("identity lookup failed")
)

// Config describes our application's registration with the provider
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Endpoints    golem.Endpoints
	IdentityAPI  string
	Timeout      time.Duration
}

type identityResolver interface {
	resolve(ctx context.Context, token string) (string, error)
}

// Client performs the server-side steps of the authorization code grant
type Client struct {
	oauth      *oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
	resolver   identityResolver
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if err := cfg.Endpoints.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport, err := newTokenResponseTransport(http.DefaultTransport, cfg.Endpoints.TokenURL)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: cfg.Timeout, Transport: transport}
	var resolver identityResolver
	switch cfg.IdentityAPI {
	case "", IdentityAPIKraken:
		resolver = &krakenResolver{
			baseURL:    cfg.Endpoints.BaseURL,
			clientID:   cfg.ClientID,
			httpClient: httpClient,
		}
	case IdentityAPIHelix:
		r, err := newHelixResolver(cfg.ClientID, httpClient)
		if err != nil {
			return nil, err
		}
		resolver = r
	default:
		return nil, fmt.Errorf("unsupported identity API '%s'", cfg.IdentityAPI)
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.Endpoints.AuthorizeURL,
				TokenURL:  cfg.Endpoints.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
		timeout:    cfg.Timeout,
		resolver:   resolver,
	}, nil
}

// AuthorizeURL returns the URL to which a user should be sent in order to grant our
// application access, with the given value carried through as the 'state' parameter
func (c *Client) AuthorizeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCodeForToken POSTs the authorization code, along with our client
// credentials and redirect URI, to the provider's token endpoint and returns the
// access token it issues
func (c *Client) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", ErrExchangeFailed)
	}
	return token.AccessToken, nil
}

// ResolveIdentity returns the name of the user to whom the given access token was
// issued
func (c *Client) ResolveIdentity(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userName, err := c.resolver.resolve(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolveFailed, err)
	}
	if userName == "" {
		return "", fmt.Errorf("%w: response has no user name", ErrResolveFailed)
	}
	return userName, nil
}
