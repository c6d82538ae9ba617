package cli

import (
	"fmt"
	"strings"

	"github.com/steadyhq/steady/internal/lifecycle"
	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/reconcile"
	"github.com/steadyhq/steady/internal/repository"
	"github.com/steadyhq/steady/internal/storage"
	"github.com/steadyhq/steady/internal/streak"
	"github.com/steadyhq/steady/internal/suggest"
)

// Context carries the store and lazily-built services into every
// command.
type Context struct {
	Store      storage.Provider
	ConfigDir  string
	SuggestURL string

	settings storage.Settings
	rec      *reconcile.Reconciler
	mgr      *lifecycle.Manager
	repo     *repository.Repository
	sugg     *suggest.Service
}

// setup loads the store and wires the services. Commands call it at the
// top of Run; Init is the only command that skips it.
func (ctx *Context) setup() error {
	if ctx.rec != nil {
		return nil
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	ctx.settings = settings

	engine := streak.NewEngine()
	if settings.GracePeriods > 0 {
		engine.GracePeriods = settings.GracePeriods
	}

	ctx.rec = reconcile.New(ctx.Store)
	ctx.mgr = lifecycle.NewManager(ctx.Store, ctx.rec)
	ctx.repo = repository.New(ctx.Store, engine, settings.UserID)
	ctx.sugg = suggest.NewService(ctx.ConfigDir, suggest.NewRemoteClient(ctx.SuggestURL))
	return nil
}

// findTracker resolves a user-supplied reference: exact id, id prefix,
// or case-insensitive name match.
func (ctx *Context) findTracker(ref string) (models.Tracker, error) {
	if tracker, err := ctx.Store.GetTracker(ref); err == nil {
		return tracker, nil
	}

	trackers, err := ctx.Store.GetTrackersForUser(ctx.settings.UserID)
	if err != nil {
		return models.Tracker{}, err
	}
	var matches []models.Tracker
	lower := strings.ToLower(ref)
	for _, t := range trackers {
		if strings.HasPrefix(t.ID, ref) || strings.ToLower(t.Name) == lower {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Tracker{}, fmt.Errorf("no tracker matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Tracker{}, fmt.Errorf("%q is ambiguous (%d trackers match)", ref, len(matches))
	}
}

func stateLabel(s lifecycle.State) string {
	switch s {
	case lifecycle.StateActiveChallenge:
		return "challenge"
	case lifecycle.StateActiveOngoing:
		return "ongoing"
	case lifecycle.StatePaused:
		return "paused"
	case lifecycle.StateCompleted:
		return "completed"
	case lifecycle.StateArchived:
		return "archived"
	default:
		return string(s)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatStreak(r streak.Result) string {
	if r.Current == 0 && r.Longest == 0 {
		return "no streak yet"
	}
	return fmt.Sprintf("streak %d (best %d)", r.Current, r.Longest)
}
