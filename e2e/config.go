package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_ENABLED gates the whole suite; it needs a live relay and
	// translation endpoint, so it never runs in plain `go test ./...`.
	Enabled    bool   `envconfig:"E2E_ENABLED" default:"false"`
	ChannelURL string `envconfig:"E2E_CHANNEL_URL" default:"ws://localhost:8080/ws"`
	APIKey     string `envconfig:"E2E_CHANNEL_API_KEY"`
	// E2E_TRANSLATION_ENDPOINT targets a real MyMemory-compatible API
	TranslationEndpoint string `envconfig:"E2E_TRANSLATION_ENDPOINT" default:"https://api.mymemory.translated.net"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
