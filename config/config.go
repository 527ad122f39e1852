package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `default:"8080"`
	LogLevel string `default:"info" split_words:"true"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	SpotifyID       string `split_words:"true"`
	SpotifySecret   string `split_words:"true"`
	SpotifyMarket   string `split_words:"true" default:"JP"`
	SpotifyTokenURL string `envconfig:"SPOTIFY_TOKEN_URL" default:"https://accounts.spotify.com/api/token"`
	SpotifyAPIURL   string `envconfig:"SPOTIFY_API_URL" default:"https://api.spotify.com/v1/"`

	FirestoreProjectID string `split_words:"true"`
	StorageBucket      string `split_words:"true"`
	DatabaseURL        string `envconfig:"DATABASE_URL"`

	SessionSecret string `split_words:"true"`
	EnrichGenres  bool   `split_words:"true"`
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("melodiary", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

// Services holds the credential status of every external collaborator,
// computed once at start-up.
type Services struct {
	OpenAI    CredentialStatus
	Spotify   CredentialStatus
	Firestore CredentialStatus
	Storage   CredentialStatus
	Database  CredentialStatus
}

func ProvideServices(cfg Config) Services {
	return Services{
		OpenAI:    Classify(cfg.OpenAIAPIKey),
		Spotify:   Classify(cfg.SpotifyID, cfg.SpotifySecret),
		Firestore: Classify(cfg.FirestoreProjectID),
		Storage:   Classify(cfg.StorageBucket),
		Database:  Classify(cfg.DatabaseURL),
	}
}

var Options = ProvideConfig
