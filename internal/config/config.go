package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	PipelineModeSequential = "sequential"
	PipelineModeConcurrent = "concurrent"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	GenerationTimeout  time.Duration
	MaxRequestBodySize int64
	MaxImageBytes      int64
	LogLevel           string
	// AllowedImageHosts restricts image_url hosts; empty allows any host.
	// Entries starting with "." match subdomains.
	AllowedImageHosts  []string

	OCR        OCRConfig
	Generation GenerationConfig
	Pipeline   PipelineConfig
	Azure      AzureConfig
}

type OCRConfig struct {
	Language string
}

type GenerationConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Profile is nil unless GENERATION_PROFILE points at a YAML file.
	Profile *GenerationProfile
}

// GenerationProfile overrides model and per-operation sampling parameters.
type GenerationProfile struct {
	Model      string                      `yaml:"model"`
	Operations map[string]OperationProfile `yaml:"operations"`
}

type OperationProfile struct {
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
}

type PipelineConfig struct {
	Mode           string
	MaxConcurrency int
}

type AzureConfig struct {
	AccountName string
	AccountKey  string
}

// Enabled reports whether blob URLs should go through the Azure SDK.
func (a AzureConfig) Enabled() bool {
	return a.AccountName != ""
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv reads configuration from the environment, loading a .env file first
// when one is present in the working directory.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "5000"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 5*time.Minute),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 30*time.Second),
		GenerationTimeout:  parseDurationOrDefault("GENERATION_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1024*1024), // 1MB of JSON
		MaxImageBytes:      parseIntOrDefault("MAX_IMAGE_BYTES", 20*1024*1024),    // 20MB
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		AllowedImageHosts:  parseListOrDefault("ALLOWED_IMAGE_HOSTS"),
		OCR: OCRConfig{
			Language: getEnvOrDefault("OCR_LANGUAGE", "eng"),
		},
		Generation: GenerationConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getEnvOrDefault("GENERATION_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnvOrDefault("GENERATION_MODEL", "gpt-4o-mini"),
		},
		Pipeline: PipelineConfig{
			Mode:           strings.ToLower(getEnvOrDefault("PIPELINE_MODE", PipelineModeSequential)),
			MaxConcurrency: int(parseIntOrDefault("PIPELINE_MAX_CONCURRENCY", 3)),
		},
		Azure: AzureConfig{
			AccountName: os.Getenv("AZURE_STORAGE_ACCOUNT"),
			AccountKey:  os.Getenv("AZURE_STORAGE_KEY"),
		},
	}

	if path := strings.TrimSpace(os.Getenv("GENERATION_PROFILE")); path != "" {
		profile, err := LoadGenerationProfile(path)
		if err != nil {
			return nil, err
		}
		cfg.Generation.Profile = profile
		if profile.Model != "" {
			cfg.Generation.Model = profile.Model
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be > 0 (got %d)", c.MaxImageBytes)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.GenerationTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, generation=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.GenerationTimeout)
	}
	switch c.Pipeline.Mode {
	case PipelineModeSequential, PipelineModeConcurrent:
	default:
		return fmt.Errorf("invalid PIPELINE_MODE: %q (want %q or %q)",
			c.Pipeline.Mode, PipelineModeSequential, PipelineModeConcurrent)
	}
	if c.Pipeline.MaxConcurrency < 1 {
		return fmt.Errorf("PIPELINE_MAX_CONCURRENCY must be >= 1 (got %d)", c.Pipeline.MaxConcurrency)
	}
	if strings.TrimSpace(c.Generation.BaseURL) == "" {
		return fmt.Errorf("GENERATION_BASE_URL must not be empty")
	}
	if c.Azure.AccountName != "" && c.Azure.AccountKey == "" {
		return fmt.Errorf("AZURE_STORAGE_KEY is required when AZURE_STORAGE_ACCOUNT is set")
	}
	return nil
}

// LoadGenerationProfile decodes a YAML generation profile.
func LoadGenerationProfile(path string) (*GenerationProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open generation profile: %w", err)
	}
	defer f.Close()

	var profile GenerationProfile
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode generation profile %s: %w", path, err)
	}
	return &profile, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseListOrDefault splits a comma-separated variable, dropping blank entries.
func parseListOrDefault(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.ToLower(strings.TrimSpace(value)); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
