package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Site       SiteConfig       `yaml:"site"`
	Fixtures   FixturesConfig   `yaml:"fixtures"`
	Prediction PredictionConfig `yaml:"prediction"`
	Redis      RedisConfig      `yaml:"redis"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
}

// SiteConfig identifies this deployment to the prediction provider.
type SiteConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type FixturesConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	Limit   int           `yaml:"limit"`
}

type PredictionConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	TopP        float64       `yaml:"top_p"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RedisConfig enables the fixture cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
			SessionIdleTTL: 30 * time.Minute,
		},
		Site: SiteConfig{
			Name: "NFE Football Predictor",
		},
		Fixtures: FixturesConfig{
			BaseURL: "https://api.football-data.org/v4",
			Timeout: 10 * time.Second,
			Limit:   10,
		},
		Prediction: PredictionConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "deepseek/deepseek-r1:free",
			Temperature: 0.3,
			MaxTokens:   1500,
			TopP:        0.9,
			Timeout:     60 * time.Second,
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
	}
}

// Load reads the YAML file at configPath over the defaults and then applies
// environment overrides. An empty path yields defaults plus environment.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"FOOTBALL_DATA_API_KEY": &c.Fixtures.APIKey,
		"OPENROUTER_API_KEY":    &c.Prediction.APIKey,
		"SITE_URL":              &c.Site.URL,
		"REDIS_ADDR":            &c.Redis.Addr,
		"PORT":                  &c.Server.Port,
	}
	for name, field := range overrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}
}

// Validate rejects values that would make the service misbehave. Missing API
// keys are not errors; the service degrades without them.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must be set")
	}
	if c.Fixtures.BaseURL == "" {
		return fmt.Errorf("fixtures.base_url must be set")
	}
	if c.Fixtures.Limit <= 0 {
		return fmt.Errorf("fixtures.limit must be positive, got %d", c.Fixtures.Limit)
	}
	if c.Prediction.BaseURL == "" {
		return fmt.Errorf("prediction.base_url must be set")
	}
	if c.Prediction.MaxTokens <= 0 {
		return fmt.Errorf("prediction.max_tokens must be positive, got %d", c.Prediction.MaxTokens)
	}
	if c.Prediction.Temperature < 0 || c.Prediction.Temperature > 2 {
		return fmt.Errorf("prediction.temperature out of range: %v", c.Prediction.Temperature)
	}
	return nil
}
