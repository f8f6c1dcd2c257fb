package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/tilawa/internal/db"
)

// Preferences are the listener's saved choices. Unset fields are zero
// (Reciter) or nil (Autoplay) so configuration defaults can apply.
type Preferences struct {
	Reciter  int
	Autoplay *bool
}

// GetPreferences returns the saved preferences.
func (m *Manager) GetPreferences() (Preferences, error) {
	return getPreferences(m.db)
}

// SaveReciter persists the selected reciter.
func (m *Manager) SaveReciter(id int) error {
	_, err := m.db.Exec(`
		INSERT INTO preferences (id, reciter) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET reciter = excluded.reciter
	`, id)
	return err
}

// SaveAutoplay persists the autoplay switch.
func (m *Manager) SaveAutoplay(enabled bool) error {
	_, err := m.db.Exec(`
		INSERT INTO preferences (id, autoplay) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET autoplay = excluded.autoplay
	`, enabled)
	return err
}

func getPreferences(db *sql.DB) (Preferences, error) {
	var reciter sql.NullInt64
	var autoplay sql.NullBool

	row := db.QueryRow(`SELECT reciter, autoplay FROM preferences WHERE id = 1`)
	err := row.Scan(&reciter, &autoplay)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, nil
	}
	if err != nil {
		return Preferences{}, err
	}

	prefs := Preferences{Reciter: int(dbutil.NullInt64Value(reciter))}
	if autoplay.Valid {
		prefs.Autoplay = &autoplay.Bool
	}
	return prefs, nil
}
