package login

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/golden-vcr/golem"
)

const (
	DefaultLoginPath    = "/login"
	DefaultCallbackPath = "/oauth"
	DefaultLogoutPath   = "/logout"
)

var (
	ErrMissingCallbackParams = errors.New("callback is missing state or code")
	ErrStateMismatch         = errors.New("callback state does not match session ID")
)

// Session is the subset of session functionality that the login flow needs
type Session interface {
	ID() string
	GetString(key string) string
	SetString(key, value string)
	GetBool(key string) bool
	SetBool(key string, value bool)
	Save(ctx context.Context) error
	Delete(ctx context.Context) error
}

// Provider is the identity provider that users authenticate against
type Provider interface {
	AuthorizeURL(state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)
	ResolveIdentity(ctx context.Context, token string) (string, error)
}

// Config is loaded once at startup and never modified afterwards
type Config struct {
	ClientID    string
	CallbackURL string
	Endpoints   golem.Endpoints

	LoginPath    string
	CallbackPath string
	LogoutPath   string
}

func (c Config) withDefaults() Config {
	if c.LoginPath == "" {
		c.LoginPath = DefaultLoginPath
	}
	if c.CallbackPath == "" {
		c.CallbackPath = DefaultCallbackPath
	}
	if c.LogoutPath == "" {
		c.LogoutPath = DefaultLogoutPath
	}
	return c
}

// Controller decides what happens at each step of the login flow, independent of
// how requests are routed or responses are written
type Controller struct {
	cfg      Config
	provider Provider
}

func NewController(cfg Config, provider Provider) *Controller {
	return &Controller{
		cfg:      cfg.withDefaults(),
		provider: provider,
	}
}

// Login persists the session so that its ID is stable by the time the user returns
// from the provider, then returns the data needed to render the login page
func (c *Controller) Login(ctx context.Context, s Session) (*View, error) {
	if err := s.Save(ctx); err != nil {
		return nil, err
	}
	return &View{
		Subtitle:         "Login",
		TwitchOAuthURL:   c.cfg.Endpoints.AuthorizeURL,
		TwitchClientID:   c.cfg.ClientID,
		OAuthResponseURL: c.cfg.CallbackURL,
		AuthorizeURL:     c.provider.AuthorizeURL(s.ID()),
		SessionID:        s.ID(),
		LoggedIn:         s.GetBool(golem.FieldLoggedIn),
		UserName:         s.GetString(golem.FieldUserName),
		LogoutPath:       c.cfg.LogoutPath,
	}, nil
}

// Callback handles the provider's redirect back to our application. Rejections are
// reported via the returned Outcome; an error is returned only if the session could
// not be saved.
func (c *Controller) Callback(ctx context.Context, s Session, state, code string) (Outcome, error) {
	if state == "" || code == "" {
		return c.reject(ErrMissingCallbackParams), nil
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(s.ID())) != 1 {
		return c.reject(ErrStateMismatch), nil
	}

	token, err := c.provider.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return c.reject(err), nil
	}

	// The token is recorded before we know who it belongs to; the session is still not
	// logged in until the lookup succeeds
	s.SetString(golem.FieldOAuthToken, token)
	if err := s.Save(ctx); err != nil {
		return Outcome{}, err
	}

	userName, err := c.provider.ResolveIdentity(ctx, token)
	if err != nil {
		return c.reject(err), nil
	}

	s.SetString(golem.FieldUserName, userName)
	s.SetBool(golem.FieldLoggedIn, true)
	if err := s.Save(ctx); err != nil {
		return Outcome{}, err
	}
	return Ok(c.cfg.LoginPath), nil
}

// Logout unconditionally destroys the session
func (c *Controller) Logout(ctx context.Context, s Session) (Outcome, error) {
	if err := s.Delete(ctx); err != nil {
		return Outcome{}, err
	}
	return Ok(c.cfg.LoginPath), nil
}

func (c *Controller) reject(reason error) Outcome {
	return Rejected(c.cfg.LogoutPath, reason)
}
