package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ErrMissingAdminPasswordHash = errors.New("admin_password_hash is required (set ADMIN_PASSWORD_HASH)")
	ErrMissingJWTSigningKey     = errors.New("jwt_signing_key is required (set JWT_SIGNING_KEY)")
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Order    *OrderConfig    `mapstructure:"order"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type APIConfig struct {
	Environment          string   `mapstructure:"environment"`
	BaseURL              string   `mapstructure:"base_url"`
	Port                 string   `mapstructure:"port"`
	AllowedCORSDomains   []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey        string   `mapstructure:"jwt_signing_key"`
	AdminPasswordHash    string   `mapstructure:"admin_password_hash"`
	AdminTokenTTLMinutes int      `mapstructure:"admin_token_ttl_minutes"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type OrderConfig struct {
	// UnitPrice is the fixed per-ticket price in whole currency units.
	// Order creation rejects any total that is not UnitPrice * quantity.
	UnitPrice int `mapstructure:"unit_price"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
}

func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	bindEnvOverrides()

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	viper.WatchConfig()

	return conf, nil
}

// bindEnvOverrides maps flat deployment env vars onto nested config keys.
func bindEnvOverrides() {
	overrides := map[string]string{
		"api.port":                "PORT",
		"api.environment":         "ENVIRONMENT",
		"api.jwt_signing_key":     "JWT_SIGNING_KEY",
		"api.admin_password_hash": "ADMIN_PASSWORD_HASH",
		"order.unit_price":        "UNIT_PRICE",
		"postgres.host":           "POSTGRES_HOST",
		"postgres.port":           "POSTGRES_PORT",
		"postgres.user":           "POSTGRES_USER",
		"postgres.password":       "POSTGRES_PASSWORD",
		"postgres.db_name":        "POSTGRES_DB",
	}

	for key, env := range overrides {
		_ = viper.BindEnv(key, env)
	}
}

func (c *AppConfig) validate() error {
	// No hardcoded fallback for the admin credential or the signing key.
	if c.API.AdminPasswordHash == "" {
		return ErrMissingAdminPasswordHash
	}
	if c.API.JWTSigningKey == "" {
		return ErrMissingJWTSigningKey
	}

	return nil
}
