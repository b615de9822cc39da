package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// krakenResolver resolves a user by asking the API root to describe the access token
// we present to it
type krakenResolver struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

type krakenRootResponse struct {
	Token *struct {
		UserName string `json:"user_name"`
	} `json:"token"`
}

func (r *krakenResolver) resolve(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "OAuth "+token)
	req.Header.Set("Client-ID", r.clientID)

	res, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("got response %d: %s", res.StatusCode, body)
	}

	var payload krakenRootResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}
	if payload.Token == nil {
		return "", fmt.Errorf("response has no token")
	}
	return payload.Token.UserName, nil
}
