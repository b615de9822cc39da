package twitch

import (
	"fmt"
	"net/http"
	"net/url"
)

// tokenResponseTransport marks every response from the token endpoint as JSON, so
// that the oauth2 package doesn't fall back to parsing the body as a form when the
// provider sends text/plain or omits the content-type header
type tokenResponseTransport struct {
	base     http.RoundTripper
	tokenURL *url.URL
}

func newTokenResponseTransport(base http.RoundTripper, tokenURL string) (*tokenResponseTransport, error) {
	u, err := url.Parse(tokenURL)
	if err != nil {
		return nil, fmt.Errorf("invalid token URL '%s': %w", tokenURL, err)
	}
	return &tokenResponseTransport{base: base, tokenURL: u}, nil
}

func (t *tokenResponseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if req.URL.Host == t.tokenURL.Host && req.URL.Path == t.tokenURL.Path {
		res.Header.Set("content-type", "application/json")
	}
	return res, nil
}
