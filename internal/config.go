package internal

import "time"

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=info"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	// POSTGRES_URL switches the durable store from the embedded Badger
	// backend to a shared Postgres instance.
	PostgresURL string `env:"POSTGRES_URL"`

	ChannelURL    string `env:"CHANNEL_URL,required=true"`
	ChannelAPIKey string `env:"CHANNEL_API_KEY"`

	TranslationEndpoint string        `env:"TRANSLATION_ENDPOINT,default=https://api.mymemory.translated.net"`
	TranslationTimeout  time.Duration `env:"TRANSLATION_TIMEOUT,default=5s"`

	DeliveryBufferSize int    `env:"DELIVERY_BUFFER_SIZE,default=64"`
	SearchLimit        int    `env:"SEARCH_LIMIT,default=10"`
	DisplayLanguage    string `env:"DISPLAY_LANGUAGE"`
}
