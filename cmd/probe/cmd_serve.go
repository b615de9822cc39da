package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var serveAddr string
var serveUserName string

func initServeCommand(cmd *flag.FlagSet) {
	cmd.StringVar(&serveAddr, "addr", "localhost:5999", "Address on which to serve the fake provider")
	cmd.StringVar(&serveUserName, "username", "BigJoeBob", "Twitch user name to report for every access token")
}

// runServeCommand runs a fake Twitch provider locally: point TWITCH_BASE_URL at
// http://<addr>/kraken to log in without touching the real Twitch API
func runServeCommand(config Config) error {
	p := newFakeProvider(config.TwitchClientId, config.TwitchClientSecret, serveUserName)
	r := mux.NewRouter()
	p.RegisterRoutes(r)
	log.Printf("Serving fake provider at http://%s/kraken (user name: %s)", serveAddr, serveUserName)
	return http.ListenAndServe(serveAddr, r)
}

// fakeProvider issues a fresh code every time a user is sent to the authorize
// endpoint, and a fresh access token for each code that's redeemed exactly once
type fakeProvider struct {
	clientId     string
	clientSecret string
	userName     string
	newValue     func() string

	codes  map[string]string
	tokens map[string]struct{}
	mu     sync.Mutex
}

func newFakeProvider(clientId, clientSecret, userName string) *fakeProvider {
	return &fakeProvider{
		clientId:     clientId,
		clientSecret: clientSecret,
		userName:     userName,
		newValue:     uuid.NewString,
		codes:        make(map[string]string),
		tokens:       make(map[string]struct{}),
	}
}

func (p *fakeProvider) RegisterRoutes(r *mux.Router) {
	r.Path("/kraken/oauth2/authorize").Methods("GET").HandlerFunc(p.handleAuthorize)
	r.Path("/kraken/oauth2/token").Methods("POST").HandlerFunc(p.handleToken)
	r.Path("/kraken").Methods("GET").HandlerFunc(p.handleRoot)
}

func (p *fakeProvider) handleAuthorize(res http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	if q.Get("client_id") != p.clientId {
		http.Error(res, "unknown client_id", http.StatusBadRequest)
		return
	}
	redirectUri, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || redirectUri.Host == "" {
		http.Error(res, "invalid redirect_uri", http.StatusBadRequest)
		return
	}

	code := p.newValue()
	p.mu.Lock()
	p.codes[code] = redirectUri.String()
	p.mu.Unlock()

	params := redirectUri.Query()
	params.Set("code", code)
	params.Set("state", q.Get("state"))
	redirectUri.RawQuery = params.Encode()
	http.Redirect(res, req, redirectUri.String(), http.StatusFound)
}

func (p *fakeProvider) handleToken(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PostForm.Get("client_id") != p.clientId || req.PostForm.Get("client_secret") != p.clientSecret {
		writeJSON(res, http.StatusBadRequest, map[string]interface{}{"status": 400, "message": "invalid client"})
		return
	}
	if req.PostForm.Get("grant_type") != "authorization_code" {
		writeJSON(res, http.StatusBadRequest, map[string]interface{}{"status": 400, "message": "unsupported grant_type"})
		return
	}

	code := req.PostForm.Get("code")
	p.mu.Lock()
	redirectUri, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()
	if !ok || redirectUri != req.PostForm.Get("redirect_uri") {
		writeJSON(res, http.StatusBadRequest, map[string]interface{}{"status": 400, "message": "Invalid authorization code"})
		return
	}

	token := p.newValue()
	p.mu.Lock()
	p.tokens[token] = struct{}{}
	p.mu.Unlock()
	writeJSON(res, http.StatusOK, map[string]interface{}{
		"access_token":  token,
		"refresh_token": p.newValue(),
		"scope":         []string{},
	})
}

func (p *fakeProvider) handleRoot(res http.ResponseWriter, req *http.Request) {
	token := strings.TrimPrefix(req.Header.Get("authorization"), "OAuth ")
	p.mu.Lock()
	_, ok := p.tokens[token]
	p.mu.Unlock()
	if !ok {
		writeJSON(res, http.StatusOK, map[string]interface{}{
			"token": map[string]interface{}{"valid": false},
		})
		return
	}
	writeJSON(res, http.StatusOK, map[string]interface{}{
		"token": map[string]interface{}{
			"valid":     true,
			"user_name": p.userName,
			"client_id": p.clientId,
		},
	})
}

func writeJSON(res http.ResponseWriter, status int, value interface{}) {
	res.Header().Set("content-type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(value); err != nil {
		fmt.Printf("failed to encode response: %v\n", err)
	}
}
