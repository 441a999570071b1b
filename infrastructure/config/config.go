package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Static fields are read once
// at startup; the tunables section may be refreshed at runtime by the
// file watcher.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	ProfilesTable string
	PostsTable    string
	FollowsTable  string
	EventBusName  string

	// Identity provider
	CognitoUserPoolID   string
	CognitoClientID     string
	CognitoClientSecret string

	// Object storage
	S3Bucket string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableTracing bool
	EnableEvents  bool
	RequireAuth   bool

	// Optional YAML overlay, also watched for runtime changes.
	ConfigFile string

	mu       sync.RWMutex
	tunables Tunables
}

// Tunables are the settings that may change while the process runs.
type Tunables struct {
	DemoFeed bool `yaml:"demoFeed"`
}

// fileOverrides mirrors the YAML overlay file. Only set keys override the
// environment.
type fileOverrides struct {
	ServerAddress *string   `yaml:"serverAddress"`
	Environment   *string   `yaml:"environment"`
	AWSRegion     *string   `yaml:"awsRegion"`
	ProfilesTable *string   `yaml:"profilesTable"`
	PostsTable    *string   `yaml:"postsTable"`
	FollowsTable  *string   `yaml:"followsTable"`
	EventBusName  *string   `yaml:"eventBusName"`
	S3Bucket      *string   `yaml:"s3Bucket"`
	LogLevel      *string   `yaml:"logLevel"`
	Tunables      *Tunables `yaml:"tunables"`
}

// LoadConfig loads configuration from environment variables, then applies
// the YAML overlay when CONFIG_FILE points at one.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":5001"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ProfilesTable: getEnv("PROFILES_TABLE", "Profiles"),
		PostsTable:    getEnv("POSTS_TABLE", "Posts"),
		FollowsTable:  getEnv("FOLLOWS_TABLE", "Follows"),
		EventBusName:  getEnv("EVENT_BUS_NAME", ""),

		CognitoUserPoolID:   getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:     getEnv("COGNITO_CLIENT_ID", ""),
		CognitoClientSecret: getEnv("COGNITO_CLIENT_SECRET", ""),

		S3Bucket: getEnv("S3_BUCKET_NAME", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableEvents:  getEnvBool("ENABLE_EVENTS", false),
		RequireAuth:   getEnvBool("REQUIRE_AUTH", false),

		ConfigFile: getEnv("CONFIG_FILE", ""),

		tunables: Tunables{
			DemoFeed: getEnvBool("ENABLE_DEMO_FEED", false),
		},
	}

	if cfg.ConfigFile != "" {
		if err := cfg.ApplyFile(cfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", cfg.ConfigFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required configuration.
func (c *Config) Validate() error {
	if c.ProfilesTable == "" || c.PostsTable == "" || c.FollowsTable == "" {
		return fmt.Errorf("table names must not be empty")
	}
	if c.ServerAddress == "" {
		return fmt.Errorf("server address must not be empty")
	}
	return nil
}

// ApplyFile merges the YAML overlay at path into the config. Called at
// startup and again by the watcher on every change to the file.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	// The watcher re-invokes this while requests are in flight, so the
	// whole merge runs under the lock, not just the tunables.
	c.mu.Lock()
	defer c.mu.Unlock()

	setIfPresent(&c.ServerAddress, overrides.ServerAddress)
	setIfPresent(&c.Environment, overrides.Environment)
	setIfPresent(&c.AWSRegion, overrides.AWSRegion)
	setIfPresent(&c.ProfilesTable, overrides.ProfilesTable)
	setIfPresent(&c.PostsTable, overrides.PostsTable)
	setIfPresent(&c.FollowsTable, overrides.FollowsTable)
	setIfPresent(&c.EventBusName, overrides.EventBusName)
	setIfPresent(&c.S3Bucket, overrides.S3Bucket)
	setIfPresent(&c.LogLevel, overrides.LogLevel)

	if overrides.Tunables != nil {
		c.tunables = *overrides.Tunables
	}
	return nil
}

// DemoFeedEnabled reports whether the demo feed fallback is on.
func (c *Config) DemoFeedEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tunables.DemoFeed
}

// SetTunables replaces the runtime-tunable settings.
func (c *Config) SetTunables(t Tunables) {
	c.mu.Lock()
	c.tunables = t
	c.mu.Unlock()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
