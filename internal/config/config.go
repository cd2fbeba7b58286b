package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Log      LogConfig
	Mimir    MimirConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	Mode           string
	AllowedOrigins []string
	RateLimit      RateLimitConfig
}

// RateLimitConfig bounds inbound lookups per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type UpstreamConfig struct {
	Provider string
	URL      string
	APIKey   string
	Timeout  time.Duration
	// RDAPServer pins the RDAP base URL. Empty uses IANA bootstrap.
	RDAPServer string
}

type LogConfig struct {
	Level       string
	Development bool
}

// MimirConfig drives the optional remote write loop. An empty URL disables it.
type MimirConfig struct {
	URL           string
	TenantHeader  string
	TenantID      string
	BatchSize     int
	FlushInterval time.Duration
	AuthToken     string
}

const (
	ProviderWhoisXML = "whoisxml"
	ProviderRegistry = "registry"
	ProviderRDAP     = "rdap"
)

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func Load() (*Config, error) {
	// .env é opcional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("WHOIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := applyLegacyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowedorigins", []string{"http://localhost:3000", "https://whoislookup-beryl.vercel.app"})
	v.SetDefault("server.ratelimit.rps", 10)
	v.SetDefault("server.ratelimit.burst", 20)
	v.SetDefault("upstream.provider", ProviderWhoisXML)
	v.SetDefault("upstream.url", "https://www.whoisxmlapi.com/whoisserver/WhoisService")
	v.SetDefault("upstream.apikey", "")
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("upstream.rdapserver", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("mimir.url", "")
	v.SetDefault("mimir.tenantheader", "X-Scope-OrgID")
	v.SetDefault("mimir.tenantid", "whois-lookup")
	v.SetDefault("mimir.batchsize", 1000)
	v.SetDefault("mimir.flushinterval", "10s")
	v.SetDefault("mimir.authtoken", "")
}

// applyLegacyEnv honours the unprefixed variables older deployments set.
func applyLegacyEnv(cfg *Config) error {
	if key := os.Getenv("API_KEY"); key != "" {
		cfg.Upstream.APIKey = key
	}
	if url := os.Getenv("WHOIS_API_URL"); url != "" {
		cfg.Upstream.URL = url
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		var list []string
		if err := json.Unmarshal([]byte(origins), &list); err != nil {
			return fmt.Errorf("ALLOWED_ORIGINS must be a JSON list of strings: %w", err)
		}
		cfg.Server.AllowedOrigins = list
	}
	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if debug := os.Getenv("DEBUG"); debug != "" {
		on, err := strconv.ParseBool(debug)
		if err != nil {
			return fmt.Errorf("DEBUG must be a boolean: %w", err)
		}
		if on {
			cfg.Server.Mode = "debug"
			cfg.Log.Level = "debug"
		} else {
			cfg.Server.Mode = "release"
		}
	}
	if url := os.Getenv("MIMIR_URL"); url != "" {
		cfg.Mimir.URL = url
	}
	if token := os.Getenv("MIMIR_AUTH_TOKEN"); token != "" {
		cfg.Mimir.AuthToken = token
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Upstream.Provider {
	case ProviderWhoisXML:
		if c.Upstream.URL == "" {
			return fmt.Errorf("upstream.url is required for provider %s", ProviderWhoisXML)
		}
	case ProviderRegistry, ProviderRDAP:
	default:
		return fmt.Errorf("unknown upstream.provider %q", c.Upstream.Provider)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server.mode %q", c.Server.Mode)
	}
	if c.Mimir.URL != "" {
		if c.Mimir.BatchSize <= 0 {
			return fmt.Errorf("mimir.batchsize must be positive")
		}
		if c.Mimir.FlushInterval <= 0 {
			return fmt.Errorf("mimir.flushinterval must be positive")
		}
	}
	return nil
}
