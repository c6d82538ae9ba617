package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/steadyhq/steady/internal/migration"
	"github.com/steadyhq/steady/internal/models"
)

type SQLiteStore struct {
	*notifier
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		notifier: newNotifier(),
		path:     path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner := migration.NewRunner(s.db, sqliteMigrations())
	if _, err := runner.Apply(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaults := Settings{
			UserID:              uuid.New().String(),
			DefaultDurationDays: models.DefaultDurationDays,
			GracePeriods:        1,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'steady init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner := migration.NewRunner(s.db, sqliteMigrations())
	return runner.Validate()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "user_id":
			settings.UserID = value
		case "default_duration_days":
			if settings.DefaultDurationDays, err = strconv.Atoi(value); err != nil {
				return Settings{}, fmt.Errorf("parsing default_duration_days: %w", err)
			}
		case "grace_periods":
			if settings.GracePeriods, err = strconv.Atoi(value); err != nil {
				return Settings{}, fmt.Errorf("parsing grace_periods: %w", err)
			}
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("user_id", settings.UserID); err != nil {
		return err
	}
	if _, err := stmt.Exec("default_duration_days", strconv.Itoa(settings.DefaultDurationDays)); err != nil {
		return err
	}
	if _, err := stmt.Exec("grace_periods", strconv.Itoa(settings.GracePeriods)); err != nil {
		return err
	}

	return tx.Commit()
}

const trackerColumns = `id, user_id, name, category, type, frequency, target, unit,
	duration_days, start_date, end_date, is_ongoing, times_extended,
	is_active, is_completed, archived_at, entry_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTracker(row rowScanner) (models.Tracker, error) {
	var t models.Tracker
	var startDate, endDate, createdAt, updatedAt string
	var archivedAt sql.NullString

	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Category, &t.Type, &t.Frequency, &t.Target, &t.Unit,
		&t.DurationDays, &startDate, &endDate, &t.IsOngoing, &t.TimesExtended,
		&t.IsActive, &t.IsCompleted, &archivedAt, &t.EntryCount, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Tracker{}, err
	}

	if t.StartDate, err = time.Parse(time.RFC3339, startDate); err != nil {
		return models.Tracker{}, fmt.Errorf("parsing start_date: %w", err)
	}
	if t.EndDate, err = time.Parse(time.RFC3339, endDate); err != nil {
		return models.Tracker{}, fmt.Errorf("parsing end_date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.Tracker{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return models.Tracker{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	if archivedAt.Valid {
		at, err := time.Parse(time.RFC3339, archivedAt.String)
		if err != nil {
			return models.Tracker{}, fmt.Errorf("parsing archived_at: %w", err)
		}
		t.ArchivedAt = &at
	}

	return t, nil
}

func (s *SQLiteStore) AddTracker(t models.Tracker) error {
	return s.writeTracker(t, "INSERT INTO")
}

func (s *SQLiteStore) UpdateTracker(t models.Tracker) error {
	return s.writeTracker(t, "INSERT OR REPLACE INTO")
}

func (s *SQLiteStore) writeTracker(t models.Tracker, verb string) error {
	var archivedAt sql.NullString
	if t.ArchivedAt != nil {
		archivedAt = sql.NullString{String: t.ArchivedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.Exec(verb+` trackers (`+trackerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, t.Category, t.Type, t.Frequency, t.Target, t.Unit,
		t.DurationDays, t.StartDate.UTC().Format(time.RFC3339), t.EndDate.UTC().Format(time.RFC3339),
		t.IsOngoing, t.TimesExtended, t.IsActive, t.IsCompleted, archivedAt, t.EntryCount,
		t.CreatedAt.UTC().Format(time.RFC3339), t.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *SQLiteStore) GetTracker(id string) (models.Tracker, error) {
	row := s.db.QueryRow(`SELECT `+trackerColumns+` FROM trackers WHERE id = ?`, id)
	t, err := scanTracker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tracker{}, fmt.Errorf("tracker %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (s *SQLiteStore) GetTrackersForUser(userID string) ([]models.Tracker, error) {
	rows, err := s.db.Query(`SELECT `+trackerColumns+` FROM trackers
		WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		t, err := scanTracker(rows)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

func (s *SQLiteStore) DeleteTracker(id string) error {
	res, err := s.db.Exec("DELETE FROM trackers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tracker %s: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

const entryColumns = `id, tracker_id, user_id, day, value, note, mood, energy, created_at`

func scanEntry(row rowScanner) (models.TrackerEntry, error) {
	var e models.TrackerEntry
	var createdAt string

	err := row.Scan(&e.ID, &e.TrackerID, &e.UserID, &e.Day, &e.Value, &e.Note, &e.Mood, &e.Energy, &createdAt)
	if err != nil {
		return models.TrackerEntry{}, err
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.TrackerEntry{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) AddEntry(e models.TrackerEntry) error {
	_, err := s.db.Exec(`INSERT INTO tracker_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TrackerID, e.UserID, e.Day, e.Value, e.Note, e.Mood, e.Energy,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *SQLiteStore) GetEntry(id string) (models.TrackerEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM tracker_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrackerEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (s *SQLiteStore) GetEntriesForTracker(trackerID string) ([]models.TrackerEntry, error) {
	return s.queryEntries(`SELECT `+entryColumns+` FROM tracker_entries
		WHERE tracker_id = ? ORDER BY day ASC, created_at ASC`, trackerID)
}

func (s *SQLiteStore) GetEntriesOnDay(userID, day string) ([]models.TrackerEntry, error) {
	return s.queryEntries(`SELECT `+entryColumns+` FROM tracker_entries
		WHERE user_id = ? AND day = ? ORDER BY created_at ASC`, userID, day)
}

func (s *SQLiteStore) queryEntries(query string, args ...any) ([]models.TrackerEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TrackerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) DeleteEntry(id string) error {
	res, err := s.db.Exec("DELETE FROM tracker_entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

// DeleteEntriesBatch removes all listed entries in one transaction. If any
// entry is missing the transaction rolls back and nothing is deleted.
func (s *SQLiteStore) DeleteEntriesBatch(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("DELETE FROM tracker_entries WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		res, err := stmt.Exec(id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("entry %s: %w", id, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// AddEntryCountDelta adjusts the denormalized counter in place. The
// arithmetic happens inside the database so concurrent deltas compose.
func (s *SQLiteStore) AddEntryCountDelta(trackerID string, delta int) error {
	res, err := s.db.Exec("UPDATE trackers SET entry_count = entry_count + ? WHERE id = ?", delta, trackerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tracker %s: %w", trackerID, ErrNotFound)
	}
	s.notify()
	return nil
}

func (s *SQLiteStore) CountEntries(trackerID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tracker_entries WHERE tracker_id = ?", trackerID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) SetEntryCount(trackerID string, count int) error {
	res, err := s.db.Exec("UPDATE trackers SET entry_count = ? WHERE id = ?", count, trackerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tracker %s: %w", trackerID, ErrNotFound)
	}
	s.notify()
	return nil
}
