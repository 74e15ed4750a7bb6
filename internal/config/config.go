package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Storage       StorageConfig       `mapstructure:"storage"`
	InvitationJob InvitationJobConfig `mapstructure:"invitation_job"`
	Security      SecurityConfig      `mapstructure:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLHours   int    `mapstructure:"token_ttl_hours"`
	ResetLinkTTL    int    `mapstructure:"reset_link_ttl_hours"`
	MaxLoginPerMin  int    `mapstructure:"max_login_per_min"`
	MinPasswordSize int    `mapstructure:"min_password_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds caching configuration
type CacheConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	DefaultTTL   int  `mapstructure:"default_ttl"`
	CompanyTTL   int  `mapstructure:"company_ttl"`
	UserTTL      int  `mapstructure:"user_ttl"`
	DashboardTTL int  `mapstructure:"dashboard_ttl"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	BaseDir       string `mapstructure:"base_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MaxUploadMB   int    `mapstructure:"max_upload_mb"`
}

// InvitationJobConfig holds invitation dispatch worker configuration
type InvitationJobConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	Workers   int  `mapstructure:"workers"`
	QueueSize int  `mapstructure:"queue_size"`
}

// SecurityConfig holds HTTP hardening configuration
type SecurityConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
	RateLimitBurst  int      `mapstructure:"rate_limit_burst"`
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
}

// LoadConfig loads configuration from environment and config files
func LoadConfig() (*Config, error) {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("auth.token_ttl_hours", 24)
	viper.SetDefault("auth.reset_link_ttl_hours", 24)
	viper.SetDefault("auth.max_login_per_min", 10)
	viper.SetDefault("auth.min_password_size", 8)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.default_ttl", 300)
	viper.SetDefault("cache.company_ttl", 3600)
	viper.SetDefault("cache.user_ttl", 1800)
	viper.SetDefault("cache.dashboard_ttl", 60)
	viper.SetDefault("storage.base_dir", "./data/documents")
	viper.SetDefault("storage.public_base_url", "http://localhost:8080/files")
	viper.SetDefault("storage.max_upload_mb", 10)
	viper.SetDefault("invitation_job.enabled", true)
	viper.SetDefault("invitation_job.workers", 2)
	viper.SetDefault("invitation_job.queue_size", 100)
	viper.SetDefault("security.allowed_origins", []string{"https://admin.driftpro.no", "http://localhost:3000"})
	viper.SetDefault("security.rate_limit_per_min", 300)
	viper.SetDefault("security.rate_limit_burst", 50)
	viper.SetDefault("security.max_body_bytes", 1048576)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that required backend credentials are present. A missing
// credential must fail loudly at startup, never degrade into a nil client.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if c.Database.DBName == "" {
		missing = append(missing, "database.dbname")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "auth.jwt_secret")
	}
	if len(missing) > 0 {
		return &MissingCredentialsError{Keys: missing}
	}
	return nil
}

// MissingCredentialsError reports required configuration keys that were not
// supplied via environment or config file.
type MissingCredentialsError struct {
	Keys []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("configuration error: missing required settings: %v", e.Keys)
}
