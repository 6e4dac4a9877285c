package database

import (
	"fmt"

	"github.com/kmorozova/answerboard/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the Postgres connection when the postgres store driver is
// selected. In memory mode no connection is made and nil is returned; the
// in-memory store takes over.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Store.Driver != "postgres" {
		log.Info().Msg("Store driver is memory, skipping database connection")
		return nil, nil
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Connected to database")
	return db, nil
}
