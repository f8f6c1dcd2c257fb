package state

import (
	"database/sql"

	dbutil "github.com/llehouerou/tilawa/internal/db"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS preferences (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				reciter INTEGER,
				autoplay INTEGER,
				volume REAL,
				muted INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS reading_state (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				page INTEGER NOT NULL,
				verse_key TEXT,
				updated_at INTEGER NOT NULL
			);
		`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT OR IGNORE INTO schema_version (version) VALUES (?)
		`, currentSchemaVersion)
		return err
	})
}
