package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`

	// Rate sync settings
	ExchangeRateAPIURL  string `envconfig:"EXCHANGE_RATE_API_URL" default:"https://open.er-api.com/v6/latest/USD"`
	RateSyncIntervalMin int    `envconfig:"RATE_SYNC_INTERVAL_MIN" default:"360"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
