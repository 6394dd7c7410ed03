package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application, loaded from
// environment variables (optionally via a .env file).
type Config struct {
	ServerHost string `envconfig:"SERVER_HOST" default:""`
	ServerPort string `envconfig:"SERVER_PORT" default:"8000"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"platefeed"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	// Redis is optional; when RedisHost is empty the rate limiter is disabled.
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Recipe images are written to MediaDir and served under MediaBaseURL
	// unless an S3 bucket is configured.
	MediaDir     string `envconfig:"MEDIA_DIR" default:"media"`
	MediaBaseURL string `envconfig:"MEDIA_BASE_URL" default:"/media"`
	S3Bucket     string `envconfig:"S3_BUCKET"`
	AWSRegion    string `envconfig:"AWS_REGION"`

	// Optional TTF font for the shopping list PDF. The built-in core font
	// covers latin ingredient names only.
	PDFFontPath string `envconfig:"PDF_FONT_PATH"`

	// Default page size for list endpoints and the recipes_limit cap on
	// the subscription listing.
	PageSize int `envconfig:"PAGE_SIZE" default:"6"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return &c, nil
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// RedisAddr returns the Redis address, or an empty string when Redis is
// not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
