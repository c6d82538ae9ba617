package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/steadyhq/steady/internal/migration"
	"github.com/steadyhq/steady/internal/models"
)

// PostgresStore is the shared-database Provider. The connection string
// comes from the OS keyring (see internal/keyring), never from flags or
// files.
type PostgresStore struct {
	*notifier
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		notifier: newNotifier(),
		connStr:  connStr,
	}
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, postgresMigrations())
	if _, err := runner.Apply(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

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

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, postgresMigrations())
	return runner.Validate()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) GetConfigPath() string {
	return "postgres"
}

func (s *PostgresStore) GetSettings() (Settings, error) {
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

func (s *PostgresStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	pairs := map[string]string{
		"user_id":               settings.UserID,
		"default_duration_days": strconv.Itoa(settings.DefaultDurationDays),
		"grace_periods":         strconv.Itoa(settings.GracePeriods),
	}
	for key, value := range pairs {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) AddTracker(t models.Tracker) error {
	return s.writeTracker(t, false)
}

func (s *PostgresStore) UpdateTracker(t models.Tracker) error {
	return s.writeTracker(t, true)
}

func (s *PostgresStore) writeTracker(t models.Tracker, upsert bool) error {
	var archivedAt sql.NullString
	if t.ArchivedAt != nil {
		archivedAt = sql.NullString{String: t.ArchivedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	query := `INSERT INTO trackers (` + trackerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	if upsert {
		query += ` ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id, name = EXCLUDED.name, category = EXCLUDED.category,
			type = EXCLUDED.type, frequency = EXCLUDED.frequency, target = EXCLUDED.target,
			unit = EXCLUDED.unit, duration_days = EXCLUDED.duration_days,
			start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
			is_ongoing = EXCLUDED.is_ongoing, times_extended = EXCLUDED.times_extended,
			is_active = EXCLUDED.is_active, is_completed = EXCLUDED.is_completed,
			archived_at = EXCLUDED.archived_at, entry_count = EXCLUDED.entry_count,
			created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at`
	}

	_, err := s.db.Exec(query,
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

func (s *PostgresStore) GetTracker(id string) (models.Tracker, error) {
	row := s.db.QueryRow(`SELECT `+trackerColumns+` FROM trackers WHERE id = $1`, id)
	t, err := scanTracker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tracker{}, fmt.Errorf("tracker %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (s *PostgresStore) GetTrackersForUser(userID string) ([]models.Tracker, error) {
	rows, err := s.db.Query(`SELECT `+trackerColumns+` FROM trackers
		WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
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

func (s *PostgresStore) DeleteTracker(id string) error {
	res, err := s.db.Exec("DELETE FROM trackers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tracker %s: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

func (s *PostgresStore) AddEntry(e models.TrackerEntry) error {
	_, err := s.db.Exec(`INSERT INTO tracker_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.TrackerID, e.UserID, e.Day, e.Value, e.Note, e.Mood, e.Energy,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *PostgresStore) GetEntry(id string) (models.TrackerEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM tracker_entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrackerEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (s *PostgresStore) GetEntriesForTracker(trackerID string) ([]models.TrackerEntry, error) {
	return s.queryEntries(`SELECT `+entryColumns+` FROM tracker_entries
		WHERE tracker_id = $1 ORDER BY day ASC, created_at ASC`, trackerID)
}

func (s *PostgresStore) GetEntriesOnDay(userID, day string) ([]models.TrackerEntry, error) {
	return s.queryEntries(`SELECT `+entryColumns+` FROM tracker_entries
		WHERE user_id = $1 AND day = $2 ORDER BY created_at ASC`, userID, day)
}

func (s *PostgresStore) queryEntries(query string, args ...any) ([]models.TrackerEntry, error) {
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

func (s *PostgresStore) DeleteEntry(id string) error {
	res, err := s.db.Exec("DELETE FROM tracker_entries WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

func (s *PostgresStore) DeleteEntriesBatch(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("DELETE FROM tracker_entries WHERE id = $1")
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

func (s *PostgresStore) AddEntryCountDelta(trackerID string, delta int) error {
	res, err := s.db.Exec("UPDATE trackers SET entry_count = entry_count + $1 WHERE id = $2", delta, trackerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tracker %s: %w", trackerID, ErrNotFound)
	}
	s.notify()
	return nil
}

func (s *PostgresStore) CountEntries(trackerID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tracker_entries WHERE tracker_id = $1", trackerID).Scan(&count)
	return count, err
}

func (s *PostgresStore) SetEntryCount(trackerID string, count int) error {
	res, err := s.db.Exec("UPDATE trackers SET entry_count = $1 WHERE id = $2", count, trackerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tracker %s: %w", trackerID, ErrNotFound)
	}
	s.notify()
	return nil
}
