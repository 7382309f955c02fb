package database

import (
	"context"
	"fmt"
)

// The unique constraints guarantee one catalog entry per name and one recipe
// per title, also under concurrent writers.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ingredients (
        id UUID PRIMARY KEY,
        name TEXT NOT NULL,
        unit TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        CONSTRAINT ingredients_name_key UNIQUE (name)
    )`,
	`CREATE TABLE IF NOT EXISTS recipes (
        id UUID PRIMARY KEY,
        title TEXT NOT NULL,
        image_url TEXT,
        ingredients JSONB NOT NULL DEFAULT '[]'::jsonb,
        steps JSONB NOT NULL DEFAULT '[]'::jsonb,
        tags JSONB NOT NULL DEFAULT '[]'::jsonb,
        niko_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
        albert_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        CONSTRAINT recipes_title_key UNIQUE (title)
    )`,
	`CREATE INDEX IF NOT EXISTS recipes_created_at_idx ON recipes (created_at DESC)`,
}

// EnsureSchema creates the tables used by the service if they are missing.
func (s *DBService) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not apply schema: %w", err)
		}
	}
	s.log.Info("Database schema is up to date")
	return nil
}
