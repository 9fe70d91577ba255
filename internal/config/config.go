// Package config wraps the environment-variable lookups PORT,
// DATABASE_URL, REDISTOGO_URL, and DBPREP_PATH with their defaults.
// dbprep and storage still read these variables inline, susen.go-style,
// rather than through this package. A .env file in
// the working directory, if present, is loaded once at package init
// so local development doesn't require exporting variables by hand.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: couldn't load .env: %v", err)
	}
}

// Port returns the port the HTTP server should listen on. Heroku
// and similar platforms set PORT; absent that, we listen on
// localhost only, the way a developer's laptop should.
func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return "localhost:8080"
}

// DatabaseURL returns the Postgres connection string.
func DatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return "postgres://localhost/subsets?sslmode=disable"
}

// CacheURL returns the Redis connection string.
func CacheURL() string {
	if u := os.Getenv("REDISTOGO_URL"); u != "" {
		return u
	}
	return "redis://localhost:6379/"
}

// DBPrepPath returns the dbprep directory, whose migrations
// subdirectory holds the migration files.
func DBPrepPath() string {
	if p := os.Getenv("DBPREP_PATH"); p != "" {
		return p
	}
	return "dbprep"
}
