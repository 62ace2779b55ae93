package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

// Publisher publishes refreshed snapshots. Satisfied by SnapshotPublisher;
// nil disables publishing.
type Publisher interface {
	Publish(ctx context.Context, msg *SnapshotMessage) error
}

// RefreshJob recomputes goal snapshots for users in device-projection mode.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	goals     *goal.Service
	prefs     *preferences.Service
	devices   *device.Service
	profiles  device.ProfileSource
	publisher Publisher
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config    RefreshConfig
	Logger    zerolog.Logger
	Goals     *goal.Service
	Prefs     *preferences.Service
	Devices   *device.Service
	Profiles  device.ProfileSource
	Publisher Publisher
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if config.Concurrency == 0 {
		config = DefaultRefreshConfig()
	}

	return &RefreshJob{
		config:    config,
		logger:    cfg.Logger,
		goals:     cfg.Goals,
		prefs:     cfg.Prefs,
		devices:   cfg.Devices,
		profiles:  cfg.Profiles,
		publisher: cfg.Publisher,
	}
}

// RefreshResult contains the result of a refresh run.
type RefreshResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalUsers int
	Successful int
	Skipped    int
	Failed     int
	Errors     []RefreshError
}

// RefreshError represents an error during one user's refresh.
type RefreshError struct {
	UserID string
	Stage  string
	Error  string
}

// Run refreshes every device-projection user with a bounded worker pool.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{StartTime: startTime}

	userIDs, err := j.prefs.ListDeviceProjectionUsers(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("listing device-projection users failed")
		result.Failed++
		result.Errors = append(result.Errors, RefreshError{Stage: "list", Error: err.Error()})
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		return result
	}

	return j.refreshUsers(ctx, result, userIDs)
}

// RunUsers refreshes only the given users, bypassing the device-projection
// listing. An empty slice falls back to Run.
func (j *RefreshJob) RunUsers(ctx context.Context, userIDs []string) *RefreshResult {
	if len(userIDs) == 0 {
		return j.Run(ctx)
	}

	result := &RefreshResult{StartTime: time.Now()}
	return j.refreshUsers(ctx, result, userIDs)
}

func (j *RefreshJob) refreshUsers(ctx context.Context, result *RefreshResult, userIDs []string) *RefreshResult {
	result.TotalUsers = len(userIDs)

	j.logger.Info().
		Int("total_users", result.TotalUsers).
		Int("concurrency", j.config.Concurrency).
		Msg("starting plan refresh job")

	usersChan := make(chan string, len(userIDs))
	resultsChan := make(chan userResult, len(userIDs))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, usersChan, resultsChan)
		}()
	}

	for _, id := range userIDs {
		usersChan <- id
	}
	close(usersChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for ur := range resultsChan {
		switch {
		case ur.skipped:
			result.Skipped++
		case ur.err == nil:
			result.Successful++
		default:
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{
				UserID: ur.userID,
				Stage:  ur.stage,
				Error:  ur.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("plan refresh job completed")

	return result
}

type userResult struct {
	userID  string
	stage   string
	skipped bool
	err     error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, users <-chan string, results chan<- userResult) {
	for userID := range users {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshUser(ctx, userID)
		}
	}
}

// refreshUser recomputes one user's plan from fresh telemetry and publishes
// the result. An incomplete device profile skips the user rather than
// failing the run.
func (j *RefreshJob) refreshUser(ctx context.Context, userID string) userResult {
	userCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	profile, err := j.profiles.GetBodyProfile(userCtx, userID)
	if err != nil {
		return userResult{userID: userID, stage: "profile", err: err}
	}

	prefs, err := j.prefs.Resolve(userCtx, userID)
	if err != nil {
		return userResult{userID: userID, stage: "preferences", err: err}
	}

	plan, ready, err := j.goals.ComputePlan(goal.PlanInput{
		Profile:          profile.Profile(),
		Primary:          prefs.PrimaryGoal,
		Split:            prefs.Split(),
		Selection:        prefs.Selection,
		WaterGoalMl:      prefs.WaterGoalMl,
		ExerciseMinutes:  prefs.ExerciseMinutes,
		ExerciseCalories: prefs.ExerciseCalories,
	})
	if err != nil {
		return userResult{userID: userID, stage: "compute", err: err}
	}
	if !ready {
		j.logger.Debug().Str("user_id", userID).Msg("profile not ready, skipping")
		return userResult{userID: userID, skipped: true}
	}

	summary, err := j.devices.GetDailySummary(userCtx, userID, time.Now())
	if err != nil {
		return userResult{userID: userID, stage: "telemetry", err: err}
	}

	remaining, err := j.goals.RemainingBudget(
		plan.Budget.DailyCalorieGoal, prefs.Adjustment, summary.ActivityRecord(), plan.Budget.TDEE)
	if err != nil {
		return userResult{userID: userID, stage: "adjust", err: err}
	}

	if j.publisher == nil || !j.config.PublishSnapshots {
		return userResult{userID: userID}
	}

	msg := &SnapshotMessage{
		UserID:        userID,
		Snapshot:      plan.Patch.ApplyTo(goal.GoalSnapshot{}),
		Budget:        plan.Budget,
		RemainingKcal: remaining,
		ComputedAt:    time.Now().UTC(),
	}
	if err := j.publisher.Publish(userCtx, msg); err != nil {
		return userResult{userID: userID, stage: "publish", err: err}
	}

	return userResult{userID: userID}
}
