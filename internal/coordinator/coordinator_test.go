package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autoapply/internal/bridge"
	"autoapply/internal/domain"
	"autoapply/internal/gate"
	"autoapply/internal/monitoring"
)

// The default registry rejects duplicate metric registration, so the test
// binary creates the metrics exactly once and shares them.
var testMetrics = monitoring.NewMetrics()

type memStateStore struct {
	profile      *domain.UserProfile
	settings     *domain.Settings
	settingsSave int
	saveErr      error
}

func (s *memStateStore) LoadProfile(context.Context) (*domain.UserProfile, error) {
	return s.profile, nil
}

func (s *memStateStore) SaveProfile(_ context.Context, p domain.UserProfile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.profile = &p
	return nil
}

func (s *memStateStore) LoadSettings(context.Context) (*domain.Settings, error) {
	return s.settings, nil
}

func (s *memStateStore) SaveSettings(_ context.Context, v domain.Settings) error {
	s.settingsSave++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.settings = &v
	return nil
}

type memAppStore struct {
	records []domain.ApplicationRecord
	saveErr error
}

func (s *memAppStore) SaveApplication(_ context.Context, rec domain.ApplicationRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memAppStore) ListApplications(_ context.Context, limit int) ([]domain.ApplicationRecord, error) {
	if limit > len(s.records) {
		limit = len(s.records)
	}
	return s.records[:limit], nil
}

func startCoordinator(t *testing.T, store StateStore, apps ApplicationStore, at time.Time) *Coordinator {
	t.Helper()
	c := New(store, apps, Defaults{DailyApplicationLimit: 10}, testMetrics, zap.NewNop())
	c.now = func() time.Time { return at }
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)
	return c
}

func TestProfileRoundTrip(t *testing.T) {
	store := &memStateStore{}
	c := startCoordinator(t, store, nil, time.Now())
	ctx := context.Background()

	p, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p, "fresh coordinator has no profile")

	in := domain.UserProfile{PersonalDetails: domain.PersonalDetails{FirstName: "Ada"}}
	require.NoError(t, c.UpdateProfile(ctx, in))

	p, err = c.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada", p.PersonalDetails.FirstName)
	require.NotNil(t, store.profile, "profile not written through")

	// The returned profile is a copy: mutating it must not leak back.
	p.PersonalDetails.FirstName = "Grace"
	again, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.PersonalDetails.FirstName)
}

func TestConfiguredDefaultsSeedFreshInstall(t *testing.T) {
	c := New(&memStateStore{}, nil, Defaults{AutoApplyEnabled: true, DailyApplicationLimit: 3}, testMetrics, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)

	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.True(t, s.AutoApplyEnabled)
	assert.Equal(t, 3, s.DailyApplicationLimit)
}

func TestStoredSettingsBeatConfiguredDefaults(t *testing.T) {
	store := &memStateStore{settings: &domain.Settings{
		AutoApplyEnabled:      false,
		DailyApplicationLimit: 20,
		LastResetDate:         time.Now().Format(gate.DateFormat),
	}}
	c := New(store, nil, Defaults{AutoApplyEnabled: true, DailyApplicationLimit: 3}, testMetrics, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)

	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.False(t, s.AutoApplyEnabled)
	assert.Equal(t, 20, s.DailyApplicationLimit)
}

func TestSettingsDefaultsAndPatch(t *testing.T) {
	c := startCoordinator(t, &memStateStore{}, nil, time.Now())
	ctx := context.Background()

	s, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, s.DailyApplicationLimit)
	assert.False(t, s.AutoApplyEnabled)

	enabled := true
	limit := 3
	s, err = c.UpdateSettings(ctx, domain.SettingsPatch{AutoApplyEnabled: &enabled, DailyApplicationLimit: &limit})
	require.NoError(t, err)
	assert.True(t, s.AutoApplyEnabled)
	assert.Equal(t, 3, s.DailyApplicationLimit)

	// A patch with only one field leaves the other unchanged.
	disabled := false
	s, err = c.UpdateSettings(ctx, domain.SettingsPatch{AutoApplyEnabled: &disabled})
	require.NoError(t, err)
	assert.False(t, s.AutoApplyEnabled)
	assert.Equal(t, 3, s.DailyApplicationLimit)
}

func TestRecordApplication(t *testing.T) {
	apps := &memAppStore{}
	store := &memStateStore{}
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := startCoordinator(t, store, apps, at)
	ctx := context.Background()

	posting := domain.JobPosting{
		Title: "Go Engineer", Company: "Acme", URL: "https://jobs.example.com/1", Source: "LinkedIn",
	}
	rec, err := c.RecordApplication(ctx, posting)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, rec.Status)
	assert.Equal(t, at, rec.AppliedAt)

	s, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ApplicationsToday)

	require.Len(t, apps.records, 1)
	assert.Equal(t, "Go Engineer", apps.records[0].Title)
}

func TestRecordApplication_DuplicateURL(t *testing.T) {
	c := startCoordinator(t, &memStateStore{}, &memAppStore{}, time.Now())
	ctx := context.Background()

	posting := domain.JobPosting{Title: "Go Engineer", URL: "https://jobs.example.com/1", Source: "Indeed"}
	_, err := c.RecordApplication(ctx, posting)
	require.NoError(t, err)

	_, err = c.RecordApplication(ctx, posting)
	assert.ErrorIs(t, err, ErrDuplicateApplication)

	s, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ApplicationsToday, "duplicate must not increment the counter")
}

func TestRecordApplication_AppStoreFailureIsBestEffort(t *testing.T) {
	apps := &memAppStore{saveErr: errors.New("connection refused")}
	c := startCoordinator(t, &memStateStore{}, apps, time.Now())

	_, err := c.RecordApplication(context.Background(), domain.JobPosting{URL: "https://jobs.example.com/2", Source: "Monster"})
	assert.NoError(t, err, "record persistence failure must not fail the operation")

	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.ApplicationsToday)
}

func TestCanAutoApply_QuotaAndToggle(t *testing.T) {
	enabled := true
	limit := 2
	c := startCoordinator(t, &memStateStore{}, &memAppStore{}, time.Now())
	ctx := context.Background()

	ok, err := c.CanAutoApply(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "disabled by default")

	_, err = c.UpdateSettings(ctx, domain.SettingsPatch{AutoApplyEnabled: &enabled, DailyApplicationLimit: &limit})
	require.NoError(t, err)

	ok, err = c.CanAutoApply(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	for i := 0; i < limit; i++ {
		_, err = c.RecordApplication(ctx, domain.JobPosting{URL: "https://jobs.example.com/q" + string(rune('a'+i))})
		require.NoError(t, err)
	}

	ok, err = c.CanAutoApply(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "limit reached")
}

func TestQuotaRollsOverAcrossMidnight(t *testing.T) {
	day1 := time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC)
	store := &memStateStore{settings: &domain.Settings{
		AutoApplyEnabled:      true,
		DailyApplicationLimit: 5,
		ApplicationsToday:     5,
		LastResetDate:         day1.Format(gate.DateFormat),
	}}
	c := startCoordinator(t, store, nil, day1)
	ctx := context.Background()

	ok, err := c.CanAutoApply(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Advance past midnight: the next read resets the counter and persists.
	savesBefore := store.settingsSave
	c.now = func() time.Time { return day1.Add(2 * time.Hour) }

	s, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, s.ApplicationsToday)
	assert.Equal(t, "2024-03-02", s.LastResetDate)
	assert.Equal(t, savesBefore+1, store.settingsSave, "rollover persists exactly once")

	ok, err = c.CanAutoApply(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, savesBefore+1, store.settingsSave, "same-day re-check does not persist again")
}

func TestGateState(t *testing.T) {
	c := startCoordinator(t, &memStateStore{}, nil, time.Now())
	ctx := context.Background()

	st, _, err := c.GateState(ctx)
	require.NoError(t, err)
	assert.Equal(t, gate.StateIdle, st)

	enabled := true
	_, err = c.UpdateSettings(ctx, domain.SettingsPatch{AutoApplyEnabled: &enabled})
	require.NoError(t, err)

	st, s, err := c.GateState(ctx)
	require.NoError(t, err)
	assert.Equal(t, gate.StateEligible, st)
	assert.Equal(t, 10, s.DailyApplicationLimit)
}

func TestStoppedCoordinatorRejectsRequests(t *testing.T) {
	c := New(&memStateStore{}, nil, Defaults{DailyApplicationLimit: 10}, testMetrics, zap.NewNop())
	c.now = time.Now
	require.NoError(t, c.Start(context.Background()))
	c.Stop()

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestHandle_Vocabulary(t *testing.T) {
	c := startCoordinator(t, &memStateStore{}, &memAppStore{}, time.Now())
	ctx := context.Background()

	resp := bridge.Dispatch(ctx, c, bridge.Request{ID: "m1", Kind: bridge.KindCheckAutoApply})
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"canAutoApply":false}`, string(resp.Data))

	resp = bridge.Dispatch(ctx, c, bridge.Request{
		ID:      "m2",
		Kind:    bridge.KindUpdateSettings,
		Payload: []byte(`{"autoApplyEnabled":true}`),
	})
	require.True(t, resp.Success, resp.Error)

	resp = bridge.Dispatch(ctx, c, bridge.Request{ID: "m3", Kind: bridge.KindGetSettings})
	require.True(t, resp.Success)
	var s domain.Settings
	require.NoError(t, json.Unmarshal(resp.Data, &s))
	assert.True(t, s.AutoApplyEnabled)

	resp = bridge.Dispatch(ctx, c, bridge.Request{ID: "m4", Kind: bridge.KindFillForm})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "page context")

	resp = bridge.Dispatch(ctx, c, bridge.Request{ID: "m5", Kind: "made-up"})
	assert.False(t, resp.Success)
	assert.Equal(t, bridge.ErrUnknownKind.Error(), resp.Error)
}
