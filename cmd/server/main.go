package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/golden-vcr/auth"
	"github.com/golden-vcr/golem"
	"github.com/golden-vcr/golem/internal/admin"
	"github.com/golden-vcr/golem/internal/events"
	"github.com/golden-vcr/golem/internal/login"
	"github.com/golden-vcr/golem/internal/session"
	"github.com/golden-vcr/golem/internal/twitch"
	"github.com/golden-vcr/server-common/entry"
	"github.com/golden-vcr/server-common/rmq"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5005"`

	TwitchClientId     string `env:"TWITCH_CLIENT_ID" required:"true"`
	TwitchClientSecret string `env:"TWITCH_CLIENT_SECRET" required:"true"`
	OAuthResponseURL   string `env:"OAUTH_RESPONSE_URL" required:"true"`

	TwitchBaseURL     string `env:"TWITCH_BASE_URL" default:"https://api.twitch.tv/kraken"`
	TwitchOAuthURL    string `env:"TWITCH_OAUTH_URL"`
	TwitchTokenURL    string `env:"TWITCH_TOKEN_URL"`
	TwitchScopes      string `env:"TWITCH_SCOPES"`
	TwitchIdentityAPI string `env:"TWITCH_IDENTITY_API" default:"kraken"`

	SessionBackend       string `env:"SESSION_BACKEND" default:"memory"`
	SessionCookieName    string `env:"SESSION_COOKIE_NAME" default:"golem_session"`
	SessionCookieSecure  bool   `env:"SESSION_COOKIE_SECURE" default:"false"`
	SessionMaxAgeSeconds int    `env:"SESSION_MAX_AGE_SECONDS" default:"86400"`

	RedisAddr      string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" default:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" default:"golem:session:"`

	RmqHost     string `env:"RMQ_HOST"`
	RmqPort     int    `env:"RMQ_PORT" default:"5672"`
	RmqVhost    string `env:"RMQ_VHOST"`
	RmqUser     string `env:"RMQ_USER"`
	RmqPassword string `env:"RMQ_PASSWORD"`
	RmqExchange string `env:"RMQ_EXCHANGE" default:"login-events"`

	AuthURL string `env:"AUTH_URL"`
}

func main() {
	app, ctx := entry.NewApplication("golem")
	defer app.Stop()

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		app.Fail("Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		app.Fail("Failed to load config", err)
	}

	// Resolve the URLs at which we'll talk to Twitch: the authorize and token endpoints
	// live under the API base URL unless explicitly overridden
	endpoints := golem.KrakenEndpoints(config.TwitchBaseURL).WithOverrides(config.TwitchOAuthURL, config.TwitchTokenURL)
	if err := endpoints.Validate(); err != nil {
		app.Fail("Invalid Twitch endpoint configuration", err)
	}

	// Initialize a client that can exchange authorization codes for access tokens, and
	// resolve those tokens to Twitch usernames
	twitchClient, err := twitch.NewClient(twitch.Config{
		ClientID:     config.TwitchClientId,
		ClientSecret: config.TwitchClientSecret,
		RedirectURL:  config.OAuthResponseURL,
		Scopes:       strings.Fields(config.TwitchScopes),
		Endpoints:    endpoints,
		IdentityAPI:  config.TwitchIdentityAPI,
		Timeout:      twitch.DefaultTimeout,
	})
	if err != nil {
		app.Fail("Failed to initialize Twitch client", err)
	}

	// Sessions are kept in memory by default; use redis if we need to share them
	// between multiple replicas
	var store session.Store
	switch config.SessionBackend {
	case "memory":
		store = session.NewMemoryStore()
	case "redis":
		redisStore := session.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		}), config.RedisKeyPrefix)
		if err := redisStore.Ping(ctx); err != nil {
			app.Fail("Failed to connect to redis", err)
		}
		store = redisStore
	default:
		app.Fail("Invalid session configuration", fmt.Errorf("unsupported SESSION_BACKEND '%s'", config.SessionBackend))
	}
	sessions := session.NewManager(store, session.Options{
		CookieName: config.SessionCookieName,
		MaxAge:     time.Duration(config.SessionMaxAgeSeconds) * time.Second,
		Secure:     config.SessionCookieSecure,
	})
	app.Log().Info("Initialized session store", "backend", config.SessionBackend)

	// If a message broker is configured, announce logins and logouts to it
	var publisher events.Publisher = events.NopPublisher{}
	if config.RmqHost != "" {
		amqpConn, err := amqp.Dial(rmq.FormatConnectionString(config.RmqHost, config.RmqPort, config.RmqVhost, config.RmqUser, config.RmqPassword))
		if err != nil {
			app.Fail("Failed to connect to AMQP server", err)
		}
		defer amqpConn.Close()
		amqpPublisher, err := events.NewAMQPPublisher(amqpConn, config.RmqExchange)
		if err != nil {
			app.Fail("Failed to initialize AMQP publisher", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	// Start setting up our HTTP handlers, using gorilla/mux for routing
	r := mux.NewRouter()

	// Users GET /login to start the login flow, Twitch sends them back to GET /oauth
	// once they've granted access, and GET /logout clears their session
	controller := login.NewController(login.Config{
		ClientID:    config.TwitchClientId,
		CallbackURL: config.OAuthResponseURL,
		Endpoints:   endpoints,
	}, twitchClient)
	loginServer := login.NewServer(controller, sessions, publisher)
	loginServer.RegisterRoutes(r)

	// If we can verify golden-vcr access tokens, the broadcaster can forcibly end any
	// user's session with DELETE /admin/sessions/{id}
	if config.AuthURL != "" {
		authClient, err := auth.NewClient(ctx, config.AuthURL)
		if err != nil {
			app.Fail("Failed to initialize auth client", err)
		}
		adminServer := admin.NewServer(sessions)
		adminServer.RegisterRoutes(authClient, r)
	}

	// Handle incoming HTTP connections until our top-level context is canceled, at
	// which point shut down cleanly
	entry.RunServer(ctx, app.Log(), r, config.BindAddr, config.ListenPort)
}
