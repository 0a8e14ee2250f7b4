package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database at the given path and verifies the connection.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the chunks table and its indexes. Idempotent.
//
// vector_pos is unique among live rows only. A batch that fails between the
// chunk inserts and the vector append leaves orphan rows holding positions
// the index never grew into; the cleanup path tombstones the source and
// reingests, so tombstoned rows must release their positions or the orphans
// would block every future ingestion.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_name TEXT NOT NULL,
			heading TEXT NOT NULL,
			content TEXT NOT NULL,
			loc_start INTEGER NOT NULL,
			loc_end INTEGER NOT NULL,
			vector_pos INTEGER NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_name);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_chunks_vector_pos ON chunks(vector_pos) WHERE deleted = 0;`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
