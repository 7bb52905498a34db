package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/vistahogar/listings/internal/db"
)

// Config is the full server configuration. Values come from config.yaml
// when present, with environment overrides (APP_SERVER_ADDR and friends).
type Config struct {
	ServerAddr string
	StaticDir  string
	UploadsDir string
	PublicURL  string
	SessionTTL time.Duration
	DB         db.Config
}

func Default() Config {
	return Config{
		ServerAddr: ":8080",
		StaticDir:  "web",
		UploadsDir: "uploads",
		PublicURL:  "/uploads",
		SessionTTL: 24 * time.Hour,
		DB:         db.DefaultConfig(),
	}
}

func Load(configPath string) (Config, error) {
	// Start with defaults
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("APP")

	// Map nested keys to flat env vars
	v.BindEnv("server.addr")
	v.BindEnv("server.static_dir")
	v.BindEnv("server.uploads_dir")
	v.BindEnv("server.public_url")
	v.BindEnv("server.session_ttl")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.ServerAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.static_dir") {
		cfg.StaticDir = v.GetString("server.static_dir")
	}
	if v.IsSet("server.uploads_dir") {
		cfg.UploadsDir = v.GetString("server.uploads_dir")
	}
	if v.IsSet("server.public_url") {
		cfg.PublicURL = v.GetString("server.public_url")
	}
	if v.IsSet("server.session_ttl") {
		cfg.SessionTTL = v.GetDuration("server.session_ttl")
	}
	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}
