// Package integrationtest provides db helpers used in integration tests.
//
// Tests using it are skipped unless TEST_DB_SOURCE points to a PostgreSQL database.
package integrationtest

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/voice-bank/cmd/httpserver"
	"github.com/go-petr/voice-bank/internal/pgsledger"
	"github.com/go-petr/voice-bank/pkg/configpkg"
	"github.com/go-petr/voice-bank/pkg/dbpkg"

	_ "github.com/lib/pq" // postgres driver
)

// SourceEnv names the environment variable holding the test database url.
const SourceEnv = "TEST_DB_SOURCE"

// SetupServer returns a test server backed by the PostgreSQL ledger.
//
// The database is flushed once the test is complete.
func SetupServer(t *testing.T, migrationURL string) *httpserver.Server {
	t.Helper()

	db := SetupDB(t, migrationURL)

	config := configpkg.Config{
		LedgerBackend:       configpkg.LedgerPostgres,
		TokenMaker:          "paseto",
		TokenSymmetricKey:   "12345678901234567890123456789012",
		AccessTokenDuration: time.Minute,
		MaxUploadBytes:      1 << 20,
	}

	server, err := httpserver.New(pgsledger.New(db), zerolog.Nop(), config)
	if err != nil {
		t.Fatalf(`httpserver.New() returned error: %v`, err)
	}

	return server
}

// Flush truncates all application tables without dropping them.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema='public' AND table_name <> 'schema_migrations';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB migrates the test database, connects to it and flushes it after the test.
func SetupDB(t *testing.T, migrationURL string) *sql.DB {
	t.Helper()

	source := os.Getenv(SourceEnv)
	if source == "" {
		t.Skip(SourceEnv + " is not set")
	}

	if err := dbpkg.Migrate(migrationURL, source); err != nil {
		t.Fatalf("dbpkg.Migrate() returned error: %v", err)
	}

	db, err := dbpkg.Setup("postgres", source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}
