package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server configuration. Sources, in increasing
// precedence: built-in defaults, an optional config.yaml, MLAF_*
// environment variables, command-line flags (applied by the caller).
type Config struct {
	Addr      string
	DBPath    string
	LogFile   string
	JWTSecret string

	// Bootstrap credentials for the sole admin account. If set and no
	// admin exists at startup, one is provisioned before the listener
	// opens.
	AdminUsername string
	AdminPassword string
}

// Config keys. Environment variables use the MLAF_ prefix, e.g.
// MLAF_ADMIN_PASSWORD.
const (
	keyAddr          = "addr"
	keyDB            = "db"
	keyLogFile       = "log_file"
	keyJWTSecret     = "jwt_secret"
	keyAdminUsername = "admin_username"
	keyAdminPassword = "admin_password"
)

// Defaults.
const (
	DefaultAddr   = ":8080"
	DefaultDBPath = "mlaf.sqlite3"
)

// Load reads configuration from the given config file (optional; a
// missing default config.yaml is not an error) and the environment.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault(keyAddr, DefaultAddr)
	v.SetDefault(keyDB, DefaultDBPath)

	v.SetEnvPrefix("MLAF")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine; env and defaults apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	return &Config{
		Addr:          v.GetString(keyAddr),
		DBPath:        v.GetString(keyDB),
		LogFile:       v.GetString(keyLogFile),
		JWTSecret:     v.GetString(keyJWTSecret),
		AdminUsername: v.GetString(keyAdminUsername),
		AdminPassword: v.GetString(keyAdminPassword),
	}, nil
}
