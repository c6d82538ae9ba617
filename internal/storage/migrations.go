package storage

import (
	"embed"
	"io/fs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// sqliteMigrations returns the embedded sqlite migration files as a flat fs.
func sqliteMigrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations/sqlite")
	if err != nil {
		panic("storage: embedded sqlite migrations missing: " + err.Error())
	}
	return sub
}

// postgresMigrations returns the embedded postgres migration files as a flat fs.
func postgresMigrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations/postgres")
	if err != nil {
		panic("storage: embedded postgres migrations missing: " + err.Error())
	}
	return sub
}
