package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

const (
	defaultPort           = "8080"
	defaultDBPath         = "platewise.db"
	defaultTokenTTL       = 30 * 24 * time.Hour
	defaultSpoonacularURL = "https://api.spoonacular.com"
)

// Config holds everything the service reads from the environment. It is built
// once at startup and handed to the components that need it.
type Config struct {
	Port      string `koanf:"port"`
	DBPath    string `koanf:"db_path"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// AuthRateLimit is the number of register or login attempts allowed per
	// IP per minute, counted separately for each endpoint.
	AuthRateLimit int `koanf:"auth_rate_limit"`

	// AllowedOrigins are host patterns permitted to open WebSocket
	// connections besides the API's own host.
	AllowedOrigins []string `koanf:"allowed_origins"`

	Spoonacular Spoonacular `koanf:"spoonacular"`
}

// Spoonacular configures the external recipe lookup proxy.
type Spoonacular struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// envKeys maps each environment variable onto its config path.
var envKeys = map[string]string{
	"PLATEWISE_PORT":            "port",
	"PLATEWISE_DB_PATH":         "db_path",
	"PLATEWISE_LOG_LEVEL":       "log_level",
	"PLATEWISE_LOG_FORMAT":      "log_format",
	"PLATEWISE_JWT_SECRET":      "jwt_secret",
	"PLATEWISE_TOKEN_TTL":       "token_ttl",
	"PLATEWISE_AUTH_RATE_LIMIT": "auth_rate_limit",
	"PLATEWISE_ALLOWED_ORIGINS": "allowed_origins",
	"SPOONACULAR_API_KEY":       "spoonacular.api_key",
	"SPOONACULAR_BASE_URL":      "spoonacular.base_url",
	"SPOONACULAR_TIMEOUT":       "spoonacular.timeout",
}

func defaults() *Config {
	return &Config{
		Port:          defaultPort,
		DBPath:        defaultDBPath,
		LogLevel:      "info",
		LogFormat:     "text",
		TokenTTL:      defaultTokenTTL,
		AuthRateLimit: 10,
		Spoonacular: Spoonacular{
			BaseURL: defaultSpoonacularURL,
			Timeout: 15 * time.Second,
		},
	}
}

// transformEnv keeps the known variables and drops blank ones, so an empty
// variable behaves like an unset one.
func transformEnv(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok {
		return "", nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if key == "allowed_origins" {
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return key, origins
	}
	return key, value
}

// Load builds a Config from environment variables over the defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(".", env.Opt{TransformFunc: transformEnv}), nil); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		var de *mapstructure.DecodeError
		if errors.As(err, &de) {
			return nil, fmt.Errorf("%s: invalid value %q", envName(de.Name()), k.String(de.Name()))
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("PLATEWISE_JWT_SECRET environment variable not set")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("PLATEWISE_TOKEN_TTL: must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.AuthRateLimit <= 0 {
		return nil, fmt.Errorf("PLATEWISE_AUTH_RATE_LIMIT: must be positive, got %d", cfg.AuthRateLimit)
	}
	if cfg.Spoonacular.Timeout <= 0 {
		return nil, fmt.Errorf("SPOONACULAR_TIMEOUT: must be positive, got %s", cfg.Spoonacular.Timeout)
	}

	return cfg, nil
}

// envName returns the variable that feeds a config path.
func envName(key string) string {
	for name, k := range envKeys {
		if k == key {
			return name
		}
	}
	return key
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
