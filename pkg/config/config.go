package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// Config represents the dashboard API server configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Shutdown  ShutdownConfig  `mapstructure:"shutdown"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// ExtractorConfig contains settings for the LLM text-extraction service.
// The retry settings apply only to the network call to the extraction
// API, never to database writes.
type ExtractorConfig struct {
	BaseURL        string        `mapstructure:"base_url" default:"https://api.openai.com/v1"`
	APIKeyEnv      string        `mapstructure:"api_key_env" default:"OPENAI_API_KEY"`
	Model          string        `mapstructure:"model" default:"gpt-4o-mini"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" default:"60s"`
	MaxRetries     int           `mapstructure:"max_retries" default:"3"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff" default:"500ms"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff" default:"5s"`
	Multiplier     float64       `mapstructure:"backoff_multiplier" default:"2.0"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecretEnv     string        `mapstructure:"jwt_secret_env"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	Issuer           string        `mapstructure:"issuer"`
	AdminUsername    string        `mapstructure:"admin_username"`
	AdminPasswordEnv string        `mapstructure:"admin_password_env"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The extractor sub-config carries struct-tag defaults so a bare
	// `extractor:` block still yields a usable client.
	if err := defaults.Set(&config.Extractor); err != nil {
		return nil, fmt.Errorf("failed to apply extractor defaults: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "crypto_dashboard")

	// Auth defaults
	viper.SetDefault("auth.jwt_secret_env", "DASHBOARD_JWT_SECRET")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.issuer", "crypto-metrics-dashboard")
	viper.SetDefault("auth.admin_username", "admin")
	viper.SetDefault("auth.admin_password_env", "DASHBOARD_ADMIN_PASSWORD")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")

	// Shutdown defaults
	viper.SetDefault("shutdown.timeout", "30s")
}

func validate(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if config.Extractor.Model == "" {
		return fmt.Errorf("extractor.model is required")
	}
	if config.Extractor.MaxRetries < 0 {
		return fmt.Errorf("extractor.max_retries cannot be negative")
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
