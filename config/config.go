package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Store        Store
	Database     Database
	JWT          JWT
	GeminiApiKey string
	SeedDemoData bool
}

type Server struct {
	Port string
}

// Store selects the answer backend: "memory" (default, the self-contained
// mock) or "postgres".
type Store struct {
	Driver string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWT struct {
	Secret     string
	Expiration time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("JWT_SECRET", "dev-only-secret")
	viper.SetDefault("JWT_EXPIRATION", "24h")
	viper.SetDefault("SEED_DEMO_DATA", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Store.Driver = viper.GetString("STORE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.Expiration = viper.GetDuration("JWT_EXPIRATION")
	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.SeedDemoData = viper.GetBool("SEED_DEMO_DATA")

	log.Info().Str("port", config.Server.Port).Str("store", config.Store.Driver).Msg("Config loaded")
	return &config, nil
}
