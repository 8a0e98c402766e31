// File: storage/schema.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS cars (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		year INTEGER NOT NULL,
		speed TEXT NOT NULL,
		price TEXT NOT NULL,
		description TEXT NOT NULL,
		image_url TEXT NOT NULL,
		tag TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		video_url TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL,
		duration TEXT NOT NULL,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		upload_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS videos_upload_date_idx ON videos (upload_date DESC, id DESC)`,
}

// AUTOINCREMENT keeps ids monotonic after deletes, matching BIGSERIAL.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS cars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		year INTEGER NOT NULL,
		speed TEXT NOT NULL,
		price TEXT NOT NULL,
		description TEXT NOT NULL,
		image_url TEXT NOT NULL,
		tag TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		video_url TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL,
		duration TEXT NOT NULL,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		upload_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS videos_upload_date_idx ON videos (upload_date DESC, id DESC)`,
}

// Migrate creates the users, cars and videos tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
