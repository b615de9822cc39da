package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
)

type Config struct {
	TwitchClientId     string `env:"TWITCH_CLIENT_ID" required:"true"`
	TwitchClientSecret string `env:"TWITCH_CLIENT_SECRET" required:"true"`
	OAuthResponseURL   string `env:"OAUTH_RESPONSE_URL" required:"true"`

	TwitchBaseURL     string `env:"TWITCH_BASE_URL" default:"https://api.twitch.tv/kraken"`
	TwitchIdentityAPI string `env:"TWITCH_IDENTITY_API" default:"kraken"`
}

type Command struct {
	name     string
	initFunc func(cmd *flag.FlagSet)
	runFunc  func(config Config) error
}

var commands = []Command{
	{"serve", initServeCommand, runServeCommand},
	{"whoami", initWhoamiCommand, runWhoamiCommand},
}

func main() {
	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	// Parse the subcommand that we want to run, or print usage if no match
	var command *Command
	commandName := ""
	if len(os.Args) > 1 {
		commandName = os.Args[1]
	}
	for i := range commands {
		if commands[i].name == commandName {
			command = &commands[i]
			break
		}
	}
	if command == nil {
		commandNames := make([]string, 0, len(commands))
		for i := range commands {
			commandNames = append(commandNames, commands[i].name)
		}
		log.Fatalf("Usage: probe [%s]", strings.Join(commandNames, "|"))
	}

	// Initialize command-line flags for the chosen subcommand, then run it
	flagSet := flag.NewFlagSet(command.name, flag.ExitOnError)
	command.initFunc(flagSet)
	if err := flagSet.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Parse error: %v", err)
	}
	if err := command.runFunc(config); err != nil {
		log.Fatalf("%s failed: %v", command.name, err)
	}
}
