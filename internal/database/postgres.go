package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"media-catalog-service/internal/config"
)

// NewPostgres creates a pooled PostgreSQL connection and runs migrations.
// The pool is shared by every request; handlers never open connections.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS media (
			id VARCHAR(20) PRIMARY KEY,
			name TEXT NOT NULL,
			media_type VARCHAR(50) NOT NULL DEFAULT '',
			year INTEGER DEFAULT 0,
			link TEXT DEFAULT '',
			genres TEXT DEFAULT '',
			rating NUMERIC(4,1) DEFAULT 0,
			running_time NUMERIC(6,1) DEFAULT 0,
			summary TEXT DEFAULT '',
			certificate VARCHAR(20) DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		// One preference row per (user, media); mutations are atomic
		// upserts keyed on this primary key.
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
			media_id VARCHAR(20) REFERENCES media(id) ON DELETE CASCADE,
			watched BOOLEAN NOT NULL DEFAULT FALSE,
			liked BOOLEAN NOT NULL DEFAULT FALSE,
			rating NUMERIC(4,1) NOT NULL DEFAULT 0,
			review TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (user_id, media_id)
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_media_name ON media(name)`,
		`CREATE INDEX IF NOT EXISTS idx_media_media_type ON media(media_type)`,
		`CREATE INDEX IF NOT EXISTS idx_media_year ON media(year)`,
		`CREATE INDEX IF NOT EXISTS idx_media_rating ON media(rating)`,
		`CREATE INDEX IF NOT EXISTS idx_preferences_user ON preferences(user_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
