package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 5001
	defaultEnv        = "development"
	defaultMongoHost  = "127.0.0.1"
	defaultMongoPort  = 27017
	defaultMongoName  = "aicody_snippets"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
)

// rawAppConfig tolerates the key spellings accumulated across old
// deployments (.env of the Node version, early YAML drafts).
type rawAppConfig struct {
	Port               int                `yaml:"port"`
	Env                string             `yaml:"env"`
	NodeEnv            string             `yaml:"node_env"`
	MongoURL           string             `yaml:"mongo_url"`
	MongoDBURI         string             `yaml:"mongodb_uri"`
	Mongo              rawMongoConfig     `yaml:"mongo"`
	Database           rawMongoConfig     `yaml:"database"`
	RedisURL           string             `yaml:"redis_url"`
	Redis              rawRedisConfig     `yaml:"redis"`
	AllowedOrigins     []string           `yaml:"allowed_origins"`
	CORSAllowedOrigins []string           `yaml:"cors_allowed_origins"`
	JWTSecret          string             `yaml:"jwt_secret"`
	JWTSecretLegacy    string             `yaml:"jwtsecret"`
	TokenTTLHours      int                `yaml:"token_ttl_hours"`
	Paths              RuntimePathsConfig `yaml:"paths"`
	StaticDir          string             `yaml:"static_dir"`
	LogDir             string             `yaml:"log_dir"`
}

type rawMongoConfig struct {
	URL      string `yaml:"url"`
	URI      string `yaml:"uri"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DBName   string `yaml:"db_name"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

// Load reads and validates the YAML config file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Mongo.Port < 1 || cfg.Mongo.Port > 65535 {
		return nil, fmt.Errorf("invalid mongo.port %d in %q, expected 1-65535", cfg.Mongo.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, path)
	}
	if cfg.TokenTTLHours < 0 {
		return nil, fmt.Errorf("invalid token_ttl_hours %d in %q, expected >= 0", cfg.TokenTTLHours, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Mongo: MongoRuntimeConfig{
			Host: defaultMongoHost,
			Port: defaultMongoPort,
			Name: defaultMongoName,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
	}
	cfg.MongoURL = cfg.Mongo.URLValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}

	cfg.Mongo = applyRawMongoConfig(cfg.Mongo, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.JWTSecretLegacy); v != "" {
		cfg.JWTSecret = v
	}
	if raw.TokenTTLHours != 0 {
		cfg.TokenTTLHours = raw.TokenTTLHours
	}

	if v := strings.TrimSpace(raw.Paths.Static); v != "" {
		cfg.Paths.Static = v
	}
	if v := strings.TrimSpace(raw.StaticDir); v != "" {
		cfg.Paths.Static = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}

	cfg.MongoURL = cfg.Mongo.URLValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Env = normalizeEnv(cfg.Env)
}

func applyRawMongoConfig(current MongoRuntimeConfig, raw rawAppConfig) MongoRuntimeConfig {
	cfg := current

	for _, v := range []string{raw.Database.URL, raw.Database.URI, raw.Mongo.URL, raw.Mongo.URI, raw.MongoURL, raw.MongoDBURI} {
		if v = strings.TrimSpace(v); v != "" {
			cfg.URL = v
		}
	}
	for _, src := range []rawMongoConfig{raw.Database, raw.Mongo} {
		if v := strings.TrimSpace(src.Host); v != "" {
			cfg.Host = v
		}
		if src.Port != 0 {
			cfg.Port = src.Port
		}
		if v := strings.TrimSpace(src.User); v != "" {
			cfg.Username = v
		}
		if v := strings.TrimSpace(src.Username); v != "" {
			cfg.Username = v
		}
		if v := strings.TrimSpace(src.Password); v != "" {
			cfg.Password = v
		}
		if v := strings.TrimSpace(src.Name); v != "" {
			cfg.Name = v
		}
		if v := strings.TrimSpace(src.DBName); v != "" {
			cfg.Name = v
		}
	}
	return cfg
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}
	return cfg
}
