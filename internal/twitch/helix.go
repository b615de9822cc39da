package twitch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nicklaw5/helix/v2"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// helixResolver resolves a user via the token validation endpoint that superseded the
// kraken API root
type helixResolver struct {
	clientID   string
	httpClient httpDoer
}

func newHelixResolver(clientID string, httpClient httpDoer) (*helixResolver, error) {
	r := &helixResolver{clientID: clientID, httpClient: httpClient}
	if _, err := r.newClient(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

// newClient returns a helix client whose requests all carry ctx
func (r *helixResolver) newClient(ctx context.Context) (*helix.Client, error) {
	c, err := helix.NewClientWithContext(ctx, &helix.Options{
		ClientID:   r.clientID,
		HTTPClient: r.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize helix client: %w", err)
	}
	return c, nil
}

func (r *helixResolver) resolve(ctx context.Context, token string) (string, error) {
	c, err := r.newClient(ctx)
	if err != nil {
		return "", err
	}
	isValid, res, err := c.ValidateToken(token)
	if err != nil {
		return "", err
	}
	if !isValid {
		return "", fmt.Errorf("got response %d from token validation: %s", res.StatusCode, res.ErrorMessage)
	}
	return res.Data.Login, nil
}
