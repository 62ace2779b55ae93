package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
	"github.com/kcalplan/kcalplan/internal/worker"
)

func TestDefaultRefreshConfig(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.PublishSnapshots)
}

func TestRefreshConfigFromEnv(t *testing.T) {
	t.Setenv("REFRESH_CONCURRENCY", "7")
	t.Setenv("REFRESH_TIMEOUT", "90s")
	t.Setenv("REFRESH_PUBLISH_SNAPSHOTS", "false")

	cfg := worker.RefreshConfigFromEnv()

	assert.Equal(t, 7, cfg.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.False(t, cfg.PublishSnapshots)
}

func TestRefreshConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("REFRESH_CONCURRENCY", "")
	t.Setenv("REFRESH_TIMEOUT", "not-a-duration")

	cfg := worker.RefreshConfigFromEnv()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

type stubProfiles struct {
	profiles map[string]*device.BodyProfile
	errs     map[string]error
}

func (s *stubProfiles) GetBodyProfile(_ context.Context, userID string) (*device.BodyProfile, error) {
	if err, ok := s.errs[userID]; ok {
		return nil, err
	}
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return nil, errors.New("unknown user")
}

type stubProvider struct {
	mu        sync.Mutex
	summaries map[string]*device.DailySummary
	errs      map[string]error
}

func (s *stubProvider) GetDailySummary(_ context.Context, userID string, _ time.Time) (*device.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[userID]; ok {
		return nil, err
	}
	if sum, ok := s.summaries[userID]; ok {
		return sum, nil
	}
	return nil, device.ErrNoData
}

func (s *stubProvider) Name() string { return "stub" }

type capturePublisher struct {
	mu   sync.Mutex
	msgs []*worker.SnapshotMessage
}

func (p *capturePublisher) Publish(_ context.Context, msg *worker.SnapshotMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestRefreshJob_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	prefs := preferences.NewService(preferences.ServiceConfig{
		Repository: preferences.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	for _, userID := range []string{"alice", "bob", "carol", "dave"} {
		p := preferences.Default(userID)
		p.Adjustment.Mode = goal.AdjustDeviceProjection
		require.NoError(t, prefs.Save(ctx, p))
	}

	profiles := &stubProfiles{
		profiles: map[string]*device.BodyProfile{
			"alice": {
				UserID:        "alice",
				Sex:           "male",
				BirthDate:     now.AddDate(-30, 0, 0),
				WeightKg:      80,
				HeightCm:      180,
				ActivityLevel: "moderate",
			},
			// Device has never measured bob's weight.
			"bob": {
				UserID:        "bob",
				Sex:           "female",
				BirthDate:     now.AddDate(-25, 0, 0),
				HeightCm:      165,
				ActivityLevel: "light",
			},
			"dave": {
				UserID:        "dave",
				Sex:           "male",
				BirthDate:     now.AddDate(-40, 0, 0),
				WeightKg:      95,
				HeightCm:      190,
				ActivityLevel: "heavy",
			},
		},
		errs: map[string]error{
			"carol": device.ErrProviderUnavailable,
		},
	}

	provider := &stubProvider{
		summaries: map[string]*device.DailySummary{
			"alice": {
				UserID:             "alice",
				EatenKcal:          1500,
				BurnedKcal:         600,
				PartialBurnKcal:    1500,
				ElapsedDayFraction: 0.5,
				SyncedAt:           now,
			},
		},
		errs: map[string]error{
			"dave": device.ErrProviderUnavailable,
		},
	}

	publisher := &capturePublisher{}
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			Concurrency:      2,
			Timeout:          5 * time.Second,
			PublishSnapshots: true,
		},
		Logger: zerolog.Nop(),
		Goals: goal.NewService(goal.ServiceConfig{
			Now: func() time.Time { return now },
		}),
		Prefs:     prefs,
		Devices:   device.NewService(device.ServiceConfig{Provider: provider, Logger: zerolog.Nop()}),
		Profiles:  profiles,
		Publisher: publisher,
	})

	result := job.Run(ctx)

	assert.Equal(t, 4, result.TotalUsers)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)

	stages := map[string]string{}
	for _, e := range result.Errors {
		stages[e.UserID] = e.Stage
	}
	assert.Equal(t, "profile", stages["carol"])
	assert.Equal(t, "telemetry", stages["dave"])

	require.Len(t, publisher.msgs, 1)
	msg := publisher.msgs[0]
	assert.Equal(t, "alice", msg.UserID)
	// Maintain goal: 1780 BMR * 1.55 = 2759 TDEE, rounded to 2760.
	assert.InDelta(t, 1780, msg.Budget.BMR, 0.01)
	assert.InDelta(t, 2760, msg.Budget.DailyCalorieGoal, 0.01)
	assert.Equal(t, msg.Budget.DailyCalorieGoal, msg.Snapshot.Calories)
	// Projected burn 1500/0.5 = 3000, so 241 kcal earned above TDEE.
	assert.InDelta(t, 2760-1500+241, msg.RemainingKcal, 0.01)
	assert.False(t, msg.ComputedAt.IsZero())
}

func TestRefreshJob_RunUsers_ScopesToRequestedUsers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	prefs := preferences.NewService(preferences.ServiceConfig{
		Repository: preferences.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	for _, userID := range []string{"alice", "dave"} {
		p := preferences.Default(userID)
		p.Adjustment.Mode = goal.AdjustDeviceProjection
		require.NoError(t, prefs.Save(ctx, p))
	}

	profiles := &stubProfiles{
		profiles: map[string]*device.BodyProfile{
			"alice": {
				UserID:        "alice",
				Sex:           "male",
				BirthDate:     now.AddDate(-30, 0, 0),
				WeightKg:      80,
				HeightCm:      180,
				ActivityLevel: "moderate",
			},
			"dave": {
				UserID:        "dave",
				Sex:           "male",
				BirthDate:     now.AddDate(-40, 0, 0),
				WeightKg:      95,
				HeightCm:      190,
				ActivityLevel: "heavy",
			},
		},
	}
	provider := &stubProvider{
		summaries: map[string]*device.DailySummary{
			"alice": {UserID: "alice", EatenKcal: 1500, SyncedAt: now},
			"dave":  {UserID: "dave", EatenKcal: 2000, SyncedAt: now},
		},
	}

	publisher := &capturePublisher{}
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			Concurrency:      2,
			Timeout:          5 * time.Second,
			PublishSnapshots: true,
		},
		Logger: zerolog.Nop(),
		Goals: goal.NewService(goal.ServiceConfig{
			Now: func() time.Time { return now },
		}),
		Prefs:     prefs,
		Devices:   device.NewService(device.ServiceConfig{Provider: provider, Logger: zerolog.Nop()}),
		Profiles:  profiles,
		Publisher: publisher,
	})

	result := job.RunUsers(ctx, []string{"alice"})

	assert.Equal(t, 1, result.TotalUsers)
	assert.Equal(t, 1, result.Successful)
	require.Len(t, publisher.msgs, 1)
	assert.Equal(t, "alice", publisher.msgs[0].UserID)

	// An empty scope falls back to the full device-projection listing.
	result = job.RunUsers(ctx, nil)

	assert.Equal(t, 2, result.TotalUsers)
	assert.Equal(t, 2, result.Successful)
}

func TestRefreshJob_Run_NoPublisher(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	prefs := preferences.NewService(preferences.ServiceConfig{
		Repository: preferences.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	p := preferences.Default("alice")
	p.Adjustment.Mode = goal.AdjustDeviceProjection
	require.NoError(t, prefs.Save(ctx, p))

	profiles := &stubProfiles{
		profiles: map[string]*device.BodyProfile{
			"alice": {
				UserID:        "alice",
				Sex:           "male",
				BirthDate:     now.AddDate(-30, 0, 0),
				WeightKg:      80,
				HeightCm:      180,
				ActivityLevel: "moderate",
			},
		},
	}
	provider := &stubProvider{
		summaries: map[string]*device.DailySummary{
			"alice": {UserID: "alice", EatenKcal: 900, SyncedAt: now},
		},
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Logger: zerolog.Nop(),
		Goals: goal.NewService(goal.ServiceConfig{
			Now: func() time.Time { return now },
		}),
		Prefs:    prefs,
		Devices:  device.NewService(device.ServiceConfig{Provider: provider, Logger: zerolog.Nop()}),
		Profiles: profiles,
	})

	result := job.Run(ctx)

	assert.Equal(t, 1, result.Successful)
	assert.Zero(t, result.Failed)
}
