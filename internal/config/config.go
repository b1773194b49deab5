package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultServerAddress = ":8090"
	DefaultProvider      = "claude"
	DefaultModel         = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens     = 2048
	DefaultRedisKey      = "coach:exchanges"
	DefaultRedisEntries  = 1000
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Provider    ProviderConfig            `json:"provider"`
	ExchangeLog ExchangeLogConfig         `json:"exchange_log"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	LogLevel      string `json:"log_level"`
}

// ProviderConfig selects the completion provider. APIKey is normally taken
// from ANTHROPIC_API_KEY rather than the file.
type ProviderConfig struct {
	Name           string `json:"name"`
	BaseURL        string `json:"base_url"`
	Model          string `json:"model"`
	APIKey         string `json:"api_key"`
	MaxTokens      int    `json:"max_tokens"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ExchangeLogConfig picks where per-call exchange records go: "" or "none",
// "sqlite3", "mysql" or "redis".
type ExchangeLogConfig struct {
	Backend    string `json:"backend"`
	RedisKey   string `json:"redis_key"`
	MaxEntries int64  `json:"max_entries"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// LoadDotenv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotenv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from the provided path, then applies environment
// overrides and defaults. An empty path falls back to config.json when it
// exists; the service runs on defaults without any file.
func Load(path string) (*Config, error) {
	var cfg Config
	explicit := path != ""
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	switch {
	case err == nil:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
		resolveSQLitePath(&cfg, filepath.Dir(absPath))
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	resolveAPIKey(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COACH_ADDR"); v != "" {
		cfg.BasicConfig.ServerAddress = v
	}
	if v := os.Getenv("COACH_LOG_LEVEL"); v != "" {
		cfg.BasicConfig.LogLevel = v
	}
	if v := os.Getenv("COACH_PROVIDER"); v != "" {
		cfg.Provider.Name = v
	}
	if v := os.Getenv("COACH_PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("COACH_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("COACH_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Provider.MaxTokens = n
		}
	}
	if v := os.Getenv("COACH_EXCHANGE_LOG"); v != "" {
		cfg.ExchangeLog.Backend = v
	}
}

// providerKeyEnv lists the environment variables holding each provider's
// API key, in lookup order.
var providerKeyEnv = map[string][]string{
	"claude": {"ANTHROPIC_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// resolveAPIKey applies COACH_API_KEY, or else the selected provider's own
// key variable, over the file value.
func resolveAPIKey(cfg *Config) {
	if v := os.Getenv("COACH_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
		return
	}
	for _, name := range providerKeyEnv[cfg.Provider.Name] {
		if v := os.Getenv(name); v != "" {
			cfg.Provider.APIKey = v
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.BasicConfig.ServerAddress == "" {
		cfg.BasicConfig.ServerAddress = DefaultServerAddress
	}
	if cfg.BasicConfig.LogLevel == "" {
		cfg.BasicConfig.LogLevel = "info"
	}
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = DefaultProvider
	}
	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	if cfg.Provider.Model == "" && cfg.Provider.Name == DefaultProvider {
		cfg.Provider.Model = DefaultModel
	}
	if cfg.Provider.MaxTokens <= 0 {
		cfg.Provider.MaxTokens = DefaultMaxTokens
	}
	cfg.ExchangeLog.Backend = strings.ToLower(strings.TrimSpace(cfg.ExchangeLog.Backend))
	if cfg.ExchangeLog.RedisKey == "" {
		cfg.ExchangeLog.RedisKey = DefaultRedisKey
	}
	if cfg.ExchangeLog.MaxEntries <= 0 {
		cfg.ExchangeLog.MaxEntries = DefaultRedisEntries
	}
}

func validate(cfg *Config) error {
	switch cfg.Provider.Name {
	case "claude", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported provider %q", cfg.Provider.Name)
	}
	if cfg.Provider.Model == "" {
		return fmt.Errorf("model must be configured for provider %s", cfg.Provider.Name)
	}
	switch cfg.ExchangeLog.Backend {
	case "", "none", "redis":
	case "sqlite", "sqlite3", "mysql":
		if _, ok := cfg.Databases[cfg.ExchangeLog.Backend]; !ok {
			return fmt.Errorf("database config for %s not found", cfg.ExchangeLog.Backend)
		}
	default:
		return fmt.Errorf("unsupported exchange log backend %q", cfg.ExchangeLog.Backend)
	}
	return nil
}

// sqlite DSNs that are plain relative paths are resolved against the config file.
func resolveSQLitePath(cfg *Config, dir string) {
	for _, key := range []string{"sqlite", "sqlite3"} {
		db, ok := cfg.Databases[key]
		if !ok || db.DSN == "" || db.DSN == ":memory:" || strings.HasPrefix(db.DSN, "file:") {
			continue
		}
		if !filepath.IsAbs(db.DSN) {
			db.DSN = filepath.Join(dir, db.DSN)
			cfg.Databases[key] = db
		}
	}
}
