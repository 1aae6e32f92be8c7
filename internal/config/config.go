// Package config loads runtime configuration from the environment.
package config

import "github.com/spf13/viper"

// Config holds the server's runtime settings. Command-line flags override
// these values.
type Config struct {
	ListenAddr string
	DBPath     string
	JWTSecret  string
	LogPath    string
}

// Config keys; the matching environment variables carry the CAMPUSFOUND_
// prefix, e.g. CAMPUSFOUND_JWT_SECRET.
const (
	keyAddr      = "addr"
	keyDB        = "db"
	keyJWTSecret = "jwt_secret"
	keyLog       = "log"
)

// Load reads CAMPUSFOUND_* environment variables with defaults. An empty
// JWTSecret means the persisted secret from the settings table is used.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("campusfound")
	v.AutomaticEnv()

	v.SetDefault(keyAddr, ":8080")
	v.SetDefault(keyDB, "campusfound.sqlite3")
	v.SetDefault(keyJWTSecret, "")
	v.SetDefault(keyLog, "")

	return &Config{
		ListenAddr: v.GetString(keyAddr),
		DBPath:     v.GetString(keyDB),
		JWTSecret:  v.GetString(keyJWTSecret),
		LogPath:    v.GetString(keyLog),
	}
}
