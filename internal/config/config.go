package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvLocal       = "local"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	defaultTimeout = 10 * time.Second
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Backend  *BackendConfig  `mapstructure:"backend"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Logger   *LoggerConfig   `mapstructure:"logger"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	Session            SessionConfig `mapstructure:"session"`
}

// SessionConfig describes the cookie holding the backend bearer token.
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	MaxAge     time.Duration `mapstructure:"max_age"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

// BackendConfig enumerates every deployment profile of the external REST
// backend. Profile selects the active one; it is resolved once at startup.
type BackendConfig struct {
	Profile        string                   `mapstructure:"profile"`
	RequestTimeout time.Duration            `mapstructure:"request_timeout"`
	StoreID        int                      `mapstructure:"store_id"`
	Profiles       map[string]ProfileConfig `mapstructure:"profiles"`
}

type ProfileConfig struct {
	BaseURL       string                    `mapstructure:"base_url"`
	TrailingSlash bool                      `mapstructure:"trailing_slash"`
	Endpoints     map[string]EndpointConfig `mapstructure:"endpoints"`
}

// EndpointConfig overrides the defaults of a single operation. Nil fields
// inherit from the profile or the built-in table.
type EndpointConfig struct {
	Path          string `mapstructure:"path"`
	TrailingSlash *bool  `mapstructure:"trailing_slash"`
	Public        *bool  `mapstructure:"public"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type LoggerConfig struct {
	FileEnable bool   `mapstructure:"file_enable"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(conf, hook); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", EnvLocal)
	v.SetDefault("api.port", "3000")
	v.SetDefault("api.session.cookie_name", "access_token")
	v.SetDefault("api.session.max_age", "24h")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("backend.profile", EnvLocal)
	v.SetDefault("backend.request_timeout", defaultTimeout.String())
	v.SetDefault("backend.store_id", 3)
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("logger.filename", "./logs/merchant-admin.log")
	v.SetDefault("logger.max_size", 64)
	v.SetDefault("logger.max_backups", 7)
	v.SetDefault("logger.max_age", 7)
}

func (c *AppConfig) validate() error {
	if c.API == nil || c.Backend == nil {
		return errors.New("config: api and backend sections are required")
	}
	if c.API.Session.CookieName == "" {
		return errors.New("config: api.session.cookie_name must not be empty")
	}
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultTimeout
	}
	if _, ok := c.Backend.Profiles[c.Backend.Profile]; !ok {
		return fmt.Errorf("config: backend profile %q is not defined", c.Backend.Profile)
	}

	return nil
}

// DSN builds a postgres connection string from the discrete settings.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

// Watch calls onChange whenever the file at path is written. The running
// process keeps the configuration it was started with.
func Watch(path string, onChange func(fsnotify.Event)) {
	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			onChange(e)
		}
	})
	v.WatchConfig()
}
