package db

import "embed"

// Migrations holds the goose migrations, one directory per dialect.
//
//go:embed migrations
var Migrations embed.FS

// MigrationsDir returns the embedded migration directory for a goose dialect.
func MigrationsDir(dialect string) string {
	return "migrations/" + dialect
}
