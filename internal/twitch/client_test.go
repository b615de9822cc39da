package twitch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golden-vcr/golem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider stands in for Twitch: tokenStatus/tokenBody and rootStatus/rootBody
// control the responses of the token endpoint and the API root, respectively. The
// token endpoint sends no content-type unless tokenContentType is set.
type fakeProvider struct {
	tokenStatus      int
	tokenBody        string
	tokenContentType string
	rootStatus       int
	rootBody    string
	delay       time.Duration

	gotTokenForm     url.Values
	gotAuthorization string
	gotClientID      string
}

func (p *fakeProvider) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	switch req.URL.Path {
	case "/kraken/oauth2/token":
		if err := req.ParseForm(); err != nil {
			panic(err)
		}
		p.gotTokenForm = req.PostForm
		if p.tokenContentType != "" {
			res.Header().Set("content-type", p.tokenContentType)
		}
		res.WriteHeader(p.tokenStatus)
		res.Write([]byte(p.tokenBody))
	case "/kraken":
		p.gotAuthorization = req.Header.Get("authorization")
		p.gotClientID = req.Header.Get("client-id")
		res.Header().Set("content-type", "application/json")
		res.WriteHeader(p.rootStatus)
		res.Write([]byte(p.rootBody))
	default:
		res.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, p *fakeProvider) *Client {
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{
		ClientID:     "my-client-id",
		ClientSecret: "my-client-secret",
		RedirectURL:  "https://golem.example.com/oauth",
		Endpoints:    golem.KrakenEndpoints(srv.URL + "/kraken"),
		Timeout:      250 * time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func Test_NewClient(t *testing.T) {
	valid := Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "https://golem.example.com/oauth",
		Endpoints:    golem.KrakenEndpoints(golem.KrakenBaseURL),
	}
	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr string
	}{
		{"valid config", func(cfg *Config) {}, ""},
		{"helix identity API", func(cfg *Config) { cfg.IdentityAPI = IdentityAPIHelix }, ""},
		{"missing client ID", func(cfg *Config) { cfg.ClientID = "" }, "client ID is required"},
		{"missing client secret", func(cfg *Config) { cfg.ClientSecret = "" }, "client secret is required"},
		{"missing redirect URL", func(cfg *Config) { cfg.RedirectURL = "" }, "redirect URL is required"},
		{"unknown identity API", func(cfg *Config) { cfg.IdentityAPI = "v3" }, "unsupported identity API 'v3'"},
		{"bad endpoint", func(cfg *Config) { cfg.Endpoints.TokenURL = "token" }, "invalid token URL 'token': scheme must be http or https"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			c, err := NewClient(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.NotNil(t, c)
				assert.Equal(t, DefaultTimeout, c.timeout)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func Test_Client_AuthorizeURL(t *testing.T) {
	c, err := NewClient(Config{
		ClientID:     "my-client-id",
		ClientSecret: "my-client-secret",
		RedirectURL:  "https://golem.example.com/oauth",
		Scopes:       []string{"user_read", "chat_login"},
		Endpoints:    golem.KrakenEndpoints(golem.KrakenBaseURL),
	})
	require.NoError(t, err)

	u, err := url.Parse(c.AuthorizeURL("S1"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.twitch.tv/kraken/oauth2/authorize", u.Scheme+"://"+u.Host+u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "my-client-id", q.Get("client_id"))
	assert.Equal(t, "https://golem.example.com/oauth", q.Get("redirect_uri"))
	assert.Equal(t, "user_read chat_login", q.Get("scope"))
	assert.Equal(t, "S1", q.Get("state"))
}

func Test_Client_ExchangeCodeForToken(t *testing.T) {
	tests := []struct {
		name        string
		tokenStatus int
		tokenBody   string
		contentType string
		delay       time.Duration
		wantToken   string
	}{
		{
			"access token is returned on success",
			http.StatusOK,
			`{"access_token":"T1","refresh_token":"R1","scope":["user_read"]}`,
			"application/json",
			0,
			"T1",
		},
		{
			"JSON body is parsed when served as text/plain",
			http.StatusOK,
			`{"access_token":"T1"}`,
			"text/plain; charset=utf-8",
			0,
			"T1",
		},
		{
			"JSON body is parsed when served as a form",
			http.StatusOK,
			`{"access_token":"T1"}`,
			"application/x-www-form-urlencoded",
			0,
			"T1",
		},
		{
			"JSON body is parsed when content-type is missing",
			http.StatusOK,
			`{"access_token":"T1"}`,
			"",
			0,
			"T1",
		},
		{
			"payload without access_token fails",
			http.StatusOK,
			`{"refresh_token":"R1"}`,
			"application/json",
			0,
			"",
		},
		{
			"empty access_token fails",
			http.StatusOK,
			`{"access_token":""}`,
			"application/json",
			0,
			"",
		},
		{
			"error status fails even if access_token is present",
			http.StatusBadRequest,
			`{"access_token":"T1"}`,
			"application/json",
			0,
			"",
		},
		{
			"error status fails",
			http.StatusInternalServerError,
			`{"status":500,"message":"Internal Server Error"}`,
			"application/json",
			0,
			"",
		},
		{
			"slow provider fails once the timeout elapses",
			http.StatusOK,
			`{"access_token":"T1"}`,
			"application/json",
			time.Second,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{
				tokenStatus:      tt.tokenStatus,
				tokenBody:        tt.tokenBody,
				tokenContentType: tt.contentType,
				delay:            tt.delay,
			}
			c := newTestClient(t, p)

			got, err := c.ExchangeCodeForToken(context.Background(), "ABC")
			if tt.wantToken == "" {
				assert.ErrorIs(t, err, ErrExchangeFailed)
				assert.Equal(t, "", got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, got)
			}
		})
	}
}

func Test_Client_ExchangeCodeForToken_form(t *testing.T) {
	p := &fakeProvider{tokenStatus: http.StatusOK, tokenBody: `{"access_token":"T1"}`}
	c := newTestClient(t, p)

	_, err := c.ExchangeCodeForToken(context.Background(), "ABC")
	require.NoError(t, err)
	assert.Equal(t, "my-client-id", p.gotTokenForm.Get("client_id"))
	assert.Equal(t, "my-client-secret", p.gotTokenForm.Get("client_secret"))
	assert.Equal(t, "authorization_code", p.gotTokenForm.Get("grant_type"))
	assert.Equal(t, "https://golem.example.com/oauth", p.gotTokenForm.Get("redirect_uri"))
	assert.Equal(t, "ABC", p.gotTokenForm.Get("code"))
}

func Test_Client_ExchangeCodeForToken_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := NewClient(Config{
		ClientID:     "my-client-id",
		ClientSecret: "my-client-secret",
		RedirectURL:  "https://golem.example.com/oauth",
		Endpoints:    golem.KrakenEndpoints(baseURL),
	})
	require.NoError(t, err)

	_, err = c.ExchangeCodeForToken(context.Background(), "ABC")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func Test_Client_ResolveIdentity(t *testing.T) {
	tests := []struct {
		name         string
		rootStatus   int
		rootBody     interface{}
		delay        time.Duration
		wantUserName string
	}{
		{
			"user name is read from token details",
			http.StatusOK,
			map[string]interface{}{
				"token": map[string]interface{}{
					"valid":     true,
					"user_name": "alice",
				},
			},
			0,
			"alice",
		},
		{
			"payload without token fails",
			http.StatusOK,
			map[string]interface{}{
				"_links": map[string]interface{}{},
			},
			0,
			"",
		},
		{
			"payload without token.user_name fails",
			http.StatusOK,
			map[string]interface{}{
				"token": map[string]interface{}{
					"valid": false,
				},
			},
			0,
			"",
		},
		{
			"error status fails",
			http.StatusUnauthorized,
			map[string]interface{}{
				"token": map[string]interface{}{
					"user_name": "alice",
				},
			},
			0,
			"",
		},
		{
			"slow provider fails once the timeout elapses",
			http.StatusOK,
			map[string]interface{}{
				"token": map[string]interface{}{
					"valid":     true,
					"user_name": "alice",
				},
			},
			time.Second,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.rootBody)
			require.NoError(t, err)
			p := &fakeProvider{rootStatus: tt.rootStatus, rootBody: string(body), delay: tt.delay}
			c := newTestClient(t, p)

			got, err := c.ResolveIdentity(context.Background(), "T1")
			if tt.delay == 0 {
				assert.Equal(t, "OAuth T1", p.gotAuthorization)
				assert.Equal(t, "my-client-id", p.gotClientID)
			}
			if tt.wantUserName == "" {
				assert.ErrorIs(t, err, ErrResolveFailed)
				assert.Equal(t, "", got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserName, got)
			}
		})
	}
}

func Test_Client_ResolveIdentity_malformed(t *testing.T) {
	p := &fakeProvider{rootStatus: http.StatusOK, rootBody: `<html>`}
	c := newTestClient(t, p)

	_, err := c.ResolveIdentity(context.Background(), "T1")
	assert.ErrorIs(t, err, ErrResolveFailed)
}
