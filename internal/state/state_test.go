package state

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenAt(":memory:")
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	return m
}

func TestGetReading_Empty(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	reading, err := m.GetReading()
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if reading != nil {
		t.Errorf("expected nil reading on empty db, got %+v", reading)
	}
}

func TestSaveAndGetReading(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	at := time.Unix(1_700_000_000, 0)
	if err := saveReading(m.db, ReadingState{Page: 42, VerseKey: "2:255", UpdatedAt: at}); err != nil {
		t.Fatalf("saveReading failed: %v", err)
	}

	got, err := getReading(m.db)
	if err != nil {
		t.Fatalf("getReading failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil reading")
	}
	if got.Page != 42 {
		t.Errorf("Page = %d, want 42", got.Page)
	}
	if got.VerseKey != "2:255" {
		t.Errorf("VerseKey = %q, want %q", got.VerseKey, "2:255")
	}
	if !got.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, at)
	}
}

func TestSaveReading_Update(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	if err := saveReading(m.db, ReadingState{Page: 1, VerseKey: "1:7"}); err != nil {
		t.Fatalf("saveReading failed: %v", err)
	}
	if err := saveReading(m.db, ReadingState{Page: 2}); err != nil {
		t.Fatalf("saveReading (update) failed: %v", err)
	}

	got, _ := getReading(m.db)
	if got.Page != 2 {
		t.Errorf("expected updated page, got %d", got.Page)
	}
	if got.VerseKey != "" {
		t.Errorf("expected verse key cleared, got %q", got.VerseKey)
	}
}

func TestSaveReading_PendingVisibleBeforeFlush(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	m.SaveReading(ReadingState{Page: 3})
	m.SaveReading(ReadingState{Page: 4})

	got, err := m.GetReading()
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if got == nil || got.Page != 4 {
		t.Errorf("GetReading = %+v, want page 4", got)
	}
}

func TestClose_FlushesPendingReading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilawa.db")

	m, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	m.SaveReading(ReadingState{Page: 300, VerseKey: "18:10"})
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenAt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	got, err := m.GetReading()
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if got == nil || got.Page != 300 || got.VerseKey != "18:10" {
		t.Errorf("GetReading = %+v, want page 300 at 18:10", got)
	}
}

func TestPreferences_Empty(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	prefs, err := m.GetPreferences()
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if prefs.Reciter != 0 || prefs.Autoplay != nil {
		t.Errorf("expected unset preferences, got %+v", prefs)
	}
}

func TestPreferences_SaveIndependently(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	if err := m.SaveReciter(5); err != nil {
		t.Fatalf("SaveReciter failed: %v", err)
	}
	prefs, _ := m.GetPreferences()
	if prefs.Reciter != 5 {
		t.Errorf("Reciter = %d, want 5", prefs.Reciter)
	}
	if prefs.Autoplay != nil {
		t.Errorf("Autoplay = %v, want unset", *prefs.Autoplay)
	}

	if err := m.SaveAutoplay(true); err != nil {
		t.Fatalf("SaveAutoplay failed: %v", err)
	}
	prefs, _ = m.GetPreferences()
	if prefs.Reciter != 5 {
		t.Errorf("Reciter = %d after autoplay save, want 5", prefs.Reciter)
	}
	if prefs.Autoplay == nil || !*prefs.Autoplay {
		t.Errorf("Autoplay = %v, want true", prefs.Autoplay)
	}
}

func TestVolume(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	vol, err := m.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if vol != nil {
		t.Errorf("expected nil volume before any save, got %+v", vol)
	}

	// A reciter-only row leaves the volume unset.
	if err := m.SaveReciter(2); err != nil {
		t.Fatalf("SaveReciter failed: %v", err)
	}
	if vol, _ := m.GetVolume(); vol != nil {
		t.Errorf("expected nil volume, got %+v", vol)
	}

	if err := m.SaveVolume(0.4, true); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	vol, _ = m.GetVolume()
	if vol == nil || vol.Volume != 0.4 || !vol.Muted {
		t.Errorf("GetVolume = %+v, want 0.4 muted", vol)
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	m := openTest(t)
	defer m.Close()

	if err := initSchema(m.db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}
	var version int
	if err := m.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}
