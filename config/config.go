package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	tournamentevents "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/events"
)

// ErrNoDatabase is returned when an operation needs Postgres but no DSN is configured.
var ErrNoDatabase = errors.New("no database configured: set DATABASE_URL or postgres.dsn")

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// NATSConfig holds NATS configuration. An empty URL keeps notifications in process.
type NATSConfig struct {
	URL     string `yaml:"url" env:"NATS_URL"`
	Subject string `yaml:"subject" env:"NATS_SUBJECT"`
	Stream  string `yaml:"stream" env:"NATS_STREAM"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JWT_DEFAULT_TTL"`
	// Audience is stamped on issued tokens and required when validating.
	Audience string        `yaml:"audience" env:"JWT_AUDIENCE"`
	Leeway   time.Duration `yaml:"leeway" env:"JWT_LEEWAY"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr" env:"HTTP_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	// RateLimit is requests per second per client IP.
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
	// RateLimitIdle is how long a client's limiter is kept after its last request.
	RateLimitIdle time.Duration `yaml:"rate_limit_idle" env:"HTTP_RATE_LIMIT_IDLE"`
	CORSMaxAge    time.Duration `yaml:"cors_max_age" env:"HTTP_CORS_MAX_AGE"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName     string `yaml:"service_name" env:"SERVICE_NAME"`
	Environment     string `yaml:"environment" env:"ENV"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat       string `yaml:"log_format" env:"LOG_FORMAT"` // text|json
	MetricsTextfile string `yaml:"metrics_textfile" env:"METRICS_TEXTFILE"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		NATS: NATSConfig{
			Subject: tournamentevents.TournamentUploadedV1,
		},
		JWT: JWTConfig{
			DefaultTTL: 24 * time.Hour,
			Audience:   "tournament-api",
			Leeway:     30 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr:          ":8080",
			RateLimit:     5,
			RateBurst:     10,
			RateLimitIdle: 10 * time.Minute,
			CORSMaxAge:    10 * time.Minute,
		},
		Observability: ObservabilityConfig{
			ServiceName: "tournament-uploader",
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "text",
		},
	}
}

// LoadConfig builds the configuration in layers: defaults, then the YAML file
// if it exists, then environment variables. Dotenv files are loaded into the
// environment first and never override variables that are already set.
func LoadConfig(filename string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Observability.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.Observability.LogFormat)
	}
	if c.NATS.Subject == "" {
		return errors.New("nats subject must not be empty")
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return errors.New("http rate limit and burst must not be negative")
	}
	return nil
}

// RequireDatabase fails with ErrNoDatabase when no DSN is set.
func (c *Config) RequireDatabase() error {
	if c.Postgres.DSN == "" {
		return ErrNoDatabase
	}
	return nil
}
