package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/steadyhq/steady/internal/models"
)

type jsonData struct {
	Version  int                            `json:"version"`
	Settings Settings                       `json:"settings"`
	Trackers map[string]models.Tracker      `json:"trackers"`
	Entries  map[string]models.TrackerEntry `json:"entries"`
}

// JSONStore keeps the whole dataset in one JSON file, rewritten on every
// mutation. Selected by a .json config path; also handy as a test fixture.
type JSONStore struct {
	*notifier
	path string
	data *jsonData
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		notifier: newNotifier(),
		path:     configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.data = &jsonData{
		Version: 1,
		Settings: Settings{
			UserID:              uuid.New().String(),
			DefaultDurationDays: models.DefaultDurationDays,
			GracePeriods:        1,
		},
		Trackers: make(map[string]models.Tracker),
		Entries:  make(map[string]models.TrackerEntry),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	if s.data != nil {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'steady init' first")
		}
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	var data jsonData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse storage file: %w", err)
	}
	if data.Trackers == nil {
		data.Trackers = make(map[string]models.Tracker)
	}
	if data.Entries == nil {
		data.Entries = make(map[string]models.TrackerEntry)
	}
	s.data = &data
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.data == nil {
		return Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.data.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	s.data.Settings = settings
	return s.save()
}

func (s *JSONStore) AddTracker(t models.Tracker) error {
	if _, exists := s.data.Trackers[t.ID]; exists {
		return fmt.Errorf("tracker %s already exists", t.ID)
	}
	s.data.Trackers[t.ID] = t
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *JSONStore) GetTracker(id string) (models.Tracker, error) {
	t, ok := s.data.Trackers[id]
	if !ok {
		return models.Tracker{}, fmt.Errorf("tracker %s: %w", id, ErrNotFound)
	}
	return t, nil
}

func (s *JSONStore) GetTrackersForUser(userID string) ([]models.Tracker, error) {
	var trackers []models.Tracker
	for _, t := range s.data.Trackers {
		if t.UserID == userID {
			trackers = append(trackers, t)
		}
	}
	sort.Slice(trackers, func(i, j int) bool {
		if !trackers[i].CreatedAt.Equal(trackers[j].CreatedAt) {
			return trackers[i].CreatedAt.Before(trackers[j].CreatedAt)
		}
		return trackers[i].ID < trackers[j].ID
	})
	return trackers, nil
}

func (s *JSONStore) UpdateTracker(t models.Tracker) error {
	s.data.Trackers[t.ID] = t
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *JSONStore) DeleteTracker(id string) error {
	if _, ok := s.data.Trackers[id]; !ok {
		return fmt.Errorf("tracker %s: %w", id, ErrNotFound)
	}
	delete(s.data.Trackers, id)
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *JSONStore) AddEntry(e models.TrackerEntry) error {
	if _, exists := s.data.Entries[e.ID]; exists {
		return fmt.Errorf("entry %s already exists", e.ID)
	}
	s.data.Entries[e.ID] = e
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *JSONStore) GetEntry(id string) (models.TrackerEntry, error) {
	e, ok := s.data.Entries[id]
	if !ok {
		return models.TrackerEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return e, nil
}

func (s *JSONStore) GetEntriesForTracker(trackerID string) ([]models.TrackerEntry, error) {
	var entries []models.TrackerEntry
	for _, e := range s.data.Entries {
		if e.TrackerID == trackerID {
			entries = append(entries, e)
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (s *JSONStore) GetEntriesOnDay(userID, day string) ([]models.TrackerEntry, error) {
	var entries []models.TrackerEntry
	for _, e := range s.data.Entries {
		if e.UserID == userID && e.Day == day {
			entries = append(entries, e)
		}
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []models.TrackerEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func (s *JSONStore) DeleteEntry(id string) error {
	if _, ok := s.data.Entries[id]; !ok {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	delete(s.data.Entries, id)
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// DeleteEntriesBatch removes all listed entries, or none of them: every id
// is checked before the first delete happens.
func (s *JSONStore) DeleteEntriesBatch(ids []string) error {
	for _, id := range ids {
		if _, ok := s.data.Entries[id]; !ok {
			return fmt.Errorf("entry %s: %w", id, ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(s.data.Entries, id)
	}
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *JSONStore) AddEntryCountDelta(trackerID string, delta int) error {
	t, ok := s.data.Trackers[trackerID]
	if !ok {
		return fmt.Errorf("tracker %s: %w", trackerID, ErrNotFound)
	}
	t.EntryCount += delta
	s.data.Trackers[trackerID] = t
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *JSONStore) CountEntries(trackerID string) (int, error) {
	count := 0
	for _, e := range s.data.Entries {
		if e.TrackerID == trackerID {
			count++
		}
	}
	return count, nil
}

func (s *JSONStore) SetEntryCount(trackerID string, count int) error {
	t, ok := s.data.Trackers[trackerID]
	if !ok {
		return fmt.Errorf("tracker %s: %w", trackerID, ErrNotFound)
	}
	t.EntryCount = count
	s.data.Trackers[trackerID] = t
	if err := s.save(); err != nil {
		return err
	}
	s.notify()
	return nil
}
