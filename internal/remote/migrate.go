package remote

import (
	"context"
	"fmt"
)

func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS songs (
          id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          user_id      TEXT NOT NULL,
          title        TEXT NOT NULL,
          duration_sec INT  NOT NULL DEFAULT 0,
          url          TEXT NOT NULL DEFAULT '',
          artist       TEXT NOT NULL DEFAULT '',
          sort_order   INT  NOT NULL DEFAULT 0,
          created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return fmt.Errorf("migrate songs: %w", err)
	}

	// sheet attachments came later
	if _, err := db.Exec(ctx, `
		ALTER TABLE songs ADD COLUMN IF NOT EXISTS sheet_url TEXT NOT NULL DEFAULT '';
	`); err != nil {
		return fmt.Errorf("migrate songs sheet_url: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_songs_user_artist
      ON songs(user_id, artist)
    `); err != nil {
		return fmt.Errorf("migrate songs index: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS artists (
          id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          user_id    TEXT NOT NULL,
          name       TEXT NOT NULL,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
          UNIQUE (user_id, name)
      )
    `); err != nil {
		return fmt.Errorf("migrate artists: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS live_events (
          user_id      TEXT NOT NULL,
          id           TEXT NOT NULL,
          title        TEXT NOT NULL DEFAULT '',
          live_date    TEXT NOT NULL DEFAULT '',
          slot_minutes INT  NOT NULL DEFAULT 0,
          artist       TEXT NOT NULL DEFAULT '',
          items        JSONB NOT NULL DEFAULT '[]'::jsonb,
          is_draft     BOOLEAN NOT NULL DEFAULT FALSE,
          created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
          PRIMARY KEY (user_id, id)
      )
    `); err != nil {
		return fmt.Errorf("migrate live_events: %w", err)
	}

	return nil
}
