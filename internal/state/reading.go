package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/tilawa/internal/db"
)

// ReadingState is where the listener left off.
type ReadingState struct {
	Page      int
	VerseKey  string // last verse recited on Page, if any
	UpdatedAt time.Time
}

func getReading(db *sql.DB) (*ReadingState, error) {
	row := db.QueryRow(`SELECT page, verse_key, updated_at FROM reading_state WHERE id = 1`)

	var state ReadingState
	var verseKey sql.NullString
	var updatedAt int64

	err := row.Scan(&state.Page, &verseKey, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	state.VerseKey = dbutil.NullStringValue(verseKey)
	state.UpdatedAt = time.Unix(updatedAt, 0)
	return &state, nil
}

func saveReading(db *sql.DB, state ReadingState) error {
	var verseKey sql.NullString
	if state.VerseKey != "" {
		verseKey = sql.NullString{String: state.VerseKey, Valid: true}
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO reading_state (id, page, verse_key, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			page = excluded.page,
			verse_key = excluded.verse_key,
			updated_at = excluded.updated_at
	`, state.Page, verseKey, state.UpdatedAt.Unix())
	return err
}
