package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2/google"
)

// Config holds every runtime setting of the service.
type Config struct {
	ProjectID string
	Location  string
	Port      string

	VTOModel string
	UseSDK   bool

	UploadDir       string
	MaxUploadBytes  int64
	RequestTimeout  time.Duration
	FetchTimeout    time.Duration
	CredentialsFile string
}

// findDefaultProject resolves the project from Application Default Credentials.
var findDefaultProject = func(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", err
	}
	return creds.ProjectID, nil
}

// Load reads the environment, after loading a .env file when one exists.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[boot] .env file not found, using environment variables")
	}
	return FromEnv(ctx)
}

func FromEnv(ctx context.Context) (*Config, error) {
	cfg := &Config{
		ProjectID:       firstEnv("GOOGLE_CLOUD_PROJECT", "PROJECT_ID"),
		Location:        firstEnv("GOOGLE_CLOUD_REGION", "LOCATION"),
		Port:            getEnv("PORT", "8080"),
		VTOModel:        getEnv("VTO_MODEL", "virtual-try-on-preview-08-04"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}

	var err error
	if cfg.UseSDK, err = getBool("USE_SDK", true); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 10*1024*1024); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.ProjectID == "" {
		project, err := findDefaultProject(ctx)
		if err != nil {
			return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is not set and default credentials are unavailable: %w", err)
		}
		cfg.ProjectID = project
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RequestTimeout <= 0 || c.FetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
