package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/golden-vcr/golem"
	"github.com/golden-vcr/golem/internal/twitch"
)

var whoamiToken string

func initWhoamiCommand(cmd *flag.FlagSet) {
	cmd.StringVar(&whoamiToken, "token", "", "Access token to resolve to a Twitch user name")
}

func runWhoamiCommand(config Config) error {
	if whoamiToken == "" {
		return errors.New("-token is required")
	}
	c, err := twitch.NewClient(twitch.Config{
		ClientID:     config.TwitchClientId,
		ClientSecret: config.TwitchClientSecret,
		RedirectURL:  config.OAuthResponseURL,
		Endpoints:    golem.KrakenEndpoints(config.TwitchBaseURL),
		IdentityAPI:  config.TwitchIdentityAPI,
	})
	if err != nil {
		return err
	}
	userName, err := c.ResolveIdentity(context.Background(), whoamiToken)
	if err != nil {
		return err
	}
	fmt.Println(userName)
	return nil
}
