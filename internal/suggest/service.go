package suggest

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/steadyhq/steady/internal/dateutil"
	"github.com/steadyhq/steady/internal/logger"
	"github.com/steadyhq/steady/internal/models"
)

// Generator produces suggestion bundles and exposes the backend's
// generation timestamp for cache validation.
type Generator interface {
	Generate(trackerID, day string) (models.SuggestionBundle, error)
	GeneratedAt(trackerID, day string) (time.Time, error)
}

// Service serves suggestion bundles through a day-scoped local cache.
// A cached bundle is used only when it was built for today AND the
// backend confirms the same generation timestamp; a mismatch or an
// unreachable backend both count as stale, forcing a regeneration.
type Service struct {
	cache *fileCache
	gen   Generator
	now   func() time.Time
}

func NewService(configDir string, gen Generator) *Service {
	return &Service{
		cache: newFileCache(configDir),
		gen:   gen,
		now:   time.Now,
	}
}

// Suggestions returns today's bundle for the tracker, from cache when it
// validates, otherwise freshly generated.
func (s *Service) Suggestions(trackerID string) (models.SuggestionBundle, error) {
	day := dateutil.Day(s.now())
	s.cache.Sweep(day)

	if bundle, ok := s.cache.Get(trackerID, day); ok {
		remote, err := s.gen.GeneratedAt(trackerID, day)
		if err == nil && remote.Equal(bundle.GeneratedAt) {
			return bundle, nil
		}
		if err != nil {
			logger.Debug("suggestion timestamp check failed, regenerating", "tracker", trackerID, "err", err)
		}
	}

	return s.regenerate(trackerID, day)
}

// Refresh bypasses the cache and fetches a fresh bundle.
func (s *Service) Refresh(trackerID string) (models.SuggestionBundle, error) {
	return s.regenerate(trackerID, dateutil.Day(s.now()))
}

func (s *Service) regenerate(trackerID, day string) (models.SuggestionBundle, error) {
	bundle, err := s.gen.Generate(trackerID, day)
	if err != nil {
		return models.SuggestionBundle{}, fmt.Errorf("fetching suggestions: %w", err)
	}
	bundle.TrackerID = trackerID
	bundle.Day = day
	bundle.CachedAt = s.now()
	if err := s.cache.Put(bundle); err != nil {
		logger.Warn("failed to cache suggestions", "tracker", trackerID, "err", err)
	}
	return bundle, nil
}

// SweepNow removes every bundle not generated for today.
func (s *Service) SweepNow() int {
	return s.cache.Sweep(dateutil.Day(s.now()))
}

// Purge drops the whole cache, e.g. on sign-out.
func (s *Service) Purge() error {
	return s.cache.Purge()
}

// StartSweeper runs a daily sweep shortly after midnight so long-lived
// processes don't keep serving yesterday's bundles off disk. The
// returned cron should be stopped on shutdown.
func (s *Service) StartSweeper() (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("5 0 * * *", func() {
		if removed := s.SweepNow(); removed > 0 {
			logger.Debug("swept stale suggestion bundles", "removed", removed)
		}
	}); err != nil {
		return nil, fmt.Errorf("scheduling cache sweep: %w", err)
	}
	c.Start()
	return c, nil
}
