// Package coordinator implements the background coordinator: the single
// owner of the user profile, settings, and daily-quota state. All reads and
// mutations funnel through one actor goroutine, so a page-session fill
// reporting an application and a concurrent settings change from the HTTP
// surface can never race.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"autoapply/internal/domain"
	"autoapply/internal/gate"
	"autoapply/internal/monitoring"
)

var (
	// ErrStopped is returned for requests arriving after shutdown.
	ErrStopped = errors.New("coordinator stopped")
	// ErrDuplicateApplication is returned when the same posting URL is
	// saved twice in one session; the counter is not incremented again.
	ErrDuplicateApplication = errors.New("application already recorded")
	// ErrNoProfile is returned when an operation needs a profile and none
	// has been stored yet.
	ErrNoProfile = errors.New("no profile loaded")
)

// StateStore persists the profile and settings records across sessions.
type StateStore interface {
	LoadProfile(ctx context.Context) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, p domain.UserProfile) error
	LoadSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, s domain.Settings) error
}

// ApplicationStore persists application records. It is an external
// collaborator: its unavailability never blocks filling.
type ApplicationStore interface {
	SaveApplication(ctx context.Context, rec domain.ApplicationRecord) error
	ListApplications(ctx context.Context, limit int) ([]domain.ApplicationRecord, error)
}

// Coordinator owns the mutable state behind an actor loop.
type Coordinator struct {
	logger  *zap.Logger
	metrics *monitoring.Metrics
	store   StateStore
	apps    ApplicationStore

	requests chan func()
	stop     chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time

	// Owned by the actor loop; never touched from outside it after Start.
	profile  *domain.UserProfile
	settings domain.Settings
	seen     mapset.Set[string]
}

// Defaults seed the settings record on a fresh install. A stored settings
// record always takes precedence over them.
type Defaults struct {
	AutoApplyEnabled      bool
	DailyApplicationLimit int
}

func New(store StateStore, apps ApplicationStore, d Defaults, m *monitoring.Metrics, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		logger:   logger,
		metrics:  m,
		store:    store,
		apps:     apps,
		requests: make(chan func(), 16),
		stop:     make(chan struct{}),
		now:      time.Now,
		settings: domain.Settings{
			AutoApplyEnabled:      d.AutoApplyEnabled,
			DailyApplicationLimit: d.DailyApplicationLimit,
			LastResetDate:         time.Now().Format(gate.DateFormat),
		},
		seen: mapset.NewSet[string](),
	}
}

// Start loads persisted state and launches the actor loop. Missing persisted
// records are not errors — a fresh install simply starts empty.
func (c *Coordinator) Start(ctx context.Context) error {
	if c.store != nil {
		if p, err := c.store.LoadProfile(ctx); err != nil {
			c.logger.Warn("could not load stored profile", zap.Error(err))
		} else if p != nil {
			c.profile = p
		}
		if s, err := c.store.LoadSettings(ctx); err != nil {
			c.logger.Warn("could not load stored settings", zap.Error(err))
		} else if s != nil {
			c.settings = *s
		}
	}
	c.rollover(ctx)

	c.wg.Add(1)
	go c.loop()
	return nil
}

func (c *Coordinator) Stop() {
	close(c.stop)
	c.wg.Wait()
}

func (c *Coordinator) loop() {
	defer c.wg.Done()
	for {
		select {
		case fn := <-c.requests:
			fn()
		case <-c.stop:
			return
		}
	}
}

// do runs fn inside the actor loop and waits for it to finish.
func (c *Coordinator) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case <-c.stop:
		return ErrStopped
	default:
	}
	select {
	case c.requests <- wrapped:
	case <-c.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-c.stop:
		// The loop may have exited with wrapped still queued; only report
		// success if it actually ran.
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Profile returns a copy of the stored profile, or nil when none is loaded.
func (c *Coordinator) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var out *domain.UserProfile
	err := c.do(ctx, func() {
		if c.profile != nil {
			cp := *c.profile
			out = &cp
		}
	})
	return out, err
}

// UpdateProfile replaces the stored profile and writes it through.
func (c *Coordinator) UpdateProfile(ctx context.Context, p domain.UserProfile) error {
	var saveErr error
	err := c.do(ctx, func() {
		c.profile = &p
		if c.store != nil {
			saveErr = c.store.SaveProfile(ctx, p)
		}
	})
	if err != nil {
		return err
	}
	return saveErr
}

// Settings returns the current settings after the lazy midnight rollover.
func (c *Coordinator) Settings(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := c.do(ctx, func() {
		c.rollover(ctx)
		out = c.settings
	})
	return out, err
}

// UpdateSettings merges a partial update into the settings and writes them
// through, returning the merged record.
func (c *Coordinator) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	var out domain.Settings
	var saveErr error
	err := c.do(ctx, func() {
		c.rollover(ctx)
		patch.Apply(&c.settings)
		out = c.settings
		if c.store != nil {
			saveErr = c.store.SaveSettings(ctx, c.settings)
		}
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return out, saveErr
}

// CanAutoApply recomputes eligibility from live quota state on every call.
func (c *Coordinator) CanAutoApply(ctx context.Context) (bool, error) {
	var ok bool
	err := c.do(ctx, func() {
		c.rollover(ctx)
		ok = gate.Eligible(gate.Quota(c.settings))
	})
	return ok, err
}

// GateState reports the auto-apply gate position together with the quota it
// was computed from.
func (c *Coordinator) GateState(ctx context.Context) (gate.State, domain.Settings, error) {
	var st gate.State
	var s domain.Settings
	err := c.do(ctx, func() {
		c.rollover(ctx)
		q := gate.Quota(c.settings)
		st = gate.Current(&q, c.now())
		s = c.settings
	})
	return st, s, err
}

// RecordApplication builds an ApplicationRecord from the posting, increments
// the daily counter, and persists the record. Saving the same URL twice in a
// session returns ErrDuplicateApplication without a second increment.
// External record persistence is best-effort: its failure is logged and
// counted but never surfaced as a fill failure.
func (c *Coordinator) RecordApplication(ctx context.Context, posting domain.JobPosting) (domain.ApplicationRecord, error) {
	var rec domain.ApplicationRecord
	var opErr error
	err := c.do(ctx, func() {
		c.rollover(ctx)
		if posting.URL != "" && !c.seen.Add(posting.URL) {
			opErr = ErrDuplicateApplication
			return
		}
		rec = domain.ApplicationRecord{
			JobPosting: posting,
			Status:     domain.StatusApplied,
			AppliedAt:  c.now(),
		}
		c.settings.ApplicationsToday++
		c.persistSettings(ctx)
		if c.apps != nil {
			if saveErr := c.apps.SaveApplication(ctx, rec); saveErr != nil {
				c.logger.Warn("could not persist application record",
					zap.String("url", posting.URL), zap.Error(saveErr))
				c.metrics.IncErrorsTotal("app_save_failed")
			}
		}
		c.metrics.IncApplications(posting.Source)
	})
	if err != nil {
		return domain.ApplicationRecord{}, err
	}
	return rec, opErr
}

// Applications lists recent application records from the external store.
func (c *Coordinator) Applications(ctx context.Context, limit int) ([]domain.ApplicationRecord, error) {
	if c.apps == nil {
		return nil, nil
	}
	return c.apps.ListApplications(ctx, limit)
}

// rollover performs the lazy calendar-date reset. It runs inside the actor
// loop (or before it starts) and persists only when a reset happened.
func (c *Coordinator) rollover(ctx context.Context) {
	q := gate.Quota(c.settings)
	if gate.RolloverIfNeeded(&q, c.now()) {
		c.settings = domain.Settings(q)
		c.persistSettings(ctx)
	}
}

func (c *Coordinator) persistSettings(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveSettings(ctx, c.settings); err != nil {
		c.logger.Warn("could not persist settings", zap.Error(err))
		c.metrics.IncErrorsTotal("settings_save_failed")
	}
}
