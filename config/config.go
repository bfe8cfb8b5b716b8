// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	UI        UIConfig        `yaml:"ui"`
	Log       LogConfig       `yaml:"log"`
	Reference ReferenceConfig `yaml:"reference"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// BackendConfig points the frontend at the share API.
type BackendConfig struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type UIConfig struct {
	CopyResetDelay   time.Duration `yaml:"copy_reset_delay"`
	DisclosurePeriod time.Duration `yaml:"disclosure_period"`
	PageTTL          time.Duration `yaml:"page_ttl"`
	SweepInterval    time.Duration `yaml:"sweep_interval"`
}

type LogConfig struct {
	Debug   bool   `yaml:"debug"`
	JSON    bool   `yaml:"json"`
	Service string `yaml:"service"`
}

// ReferenceConfig configures cmd/sharebackend, the development stand-in for
// the share API.
type ReferenceConfig struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
	MaxTTL     time.Duration `yaml:"max_ttl"`
	MaxViews   int           `yaml:"max_views"`
	Store      StoreConfig   `yaml:"store"`
}

type StoreConfig struct {
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3000,
			BaseURL: "http://localhost:3000",
		},
		Backend: BackendConfig{
			APIURL:  "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		UI: UIConfig{
			CopyResetDelay:   2 * time.Second,
			DisclosurePeriod: 15 * time.Second,
			PageTTL:          30 * time.Minute,
			SweepInterval:    time.Minute,
		},
		Log: LogConfig{
			Service: "pass-share",
		},
		Reference: ReferenceConfig{
			Host:       "0.0.0.0",
			Port:       8080,
			DefaultTTL: 24 * time.Hour,
			MaxTTL:     8 * 24 * time.Hour,
			MaxViews:   5,
			Store: StoreConfig{
				Type: "memory",
				Redis: RedisConfig{
					Addr: "localhost:6379",
				},
			},
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // defaults apply
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}

	if v := os.Getenv("API_URL"); v != "" {
		c.Backend.APIURL = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backend.Timeout = d
		}
	}

	if v := os.Getenv("LOG_DEBUG"); v != "" {
		c.Log.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		c.Log.JSON = v == "true" || v == "1"
	}

	if v := os.Getenv("REFERENCE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Reference.Port = port
		}
	}
	if v := os.Getenv("STORE_TYPE"); v != "" {
		c.Reference.Store.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Reference.Store.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Reference.Store.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Reference.Store.Redis.DB = db
		}
	}
	if v := os.Getenv("DEFAULT_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			c.Reference.DefaultTTL = ttl
		}
	}
	if v := os.Getenv("MAX_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			c.Reference.MaxTTL = ttl
		}
	}
	if v := os.Getenv("MAX_VIEWS"); v != "" {
		if views, err := strconv.Atoi(v); err == nil {
			c.Reference.MaxViews = views
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if c.Backend.APIURL == "" {
		return fmt.Errorf("backend api_url is required")
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.UI.CopyResetDelay <= 0 || c.UI.DisclosurePeriod <= 0 {
		return fmt.Errorf("ui delays must be positive")
	}

	if c.UI.PageTTL <= 0 || c.UI.SweepInterval <= 0 {
		return fmt.Errorf("page_ttl and sweep_interval must be positive")
	}

	if c.Reference.Port < 1 || c.Reference.Port > 65535 {
		return fmt.Errorf("invalid reference port: %d", c.Reference.Port)
	}

	if c.Reference.Store.Type != "memory" && c.Reference.Store.Type != "redis" {
		return fmt.Errorf("invalid store type: %s (must be 'memory' or 'redis')", c.Reference.Store.Type)
	}

	if c.Reference.Store.Type == "redis" && c.Reference.Store.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when store type is 'redis'")
	}

	if c.Reference.DefaultTTL <= 0 {
		return fmt.Errorf("default_ttl must be positive")
	}

	if c.Reference.MaxTTL < c.Reference.DefaultTTL {
		return fmt.Errorf("max_ttl must be >= default_ttl")
	}

	if c.Reference.MaxViews < 1 {
		return fmt.Errorf("max_views must be at least 1")
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) ReferenceAddr() string {
	return fmt.Sprintf("%s:%d", c.Reference.Host, c.Reference.Port)
}

// Origin is the base URL share links are built on, without a trailing slash.
func (c *Config) Origin() string {
	return strings.TrimRight(c.Server.BaseURL, "/")
}
