// Package worker provides background plan refresh processing for kcalplan.
// Users in device-projection mode get their goal snapshot recomputed from
// fresh device telemetry and the result published for downstream consumers.
package worker

import (
	"os"
	"strconv"
	"time"
)

// RefreshConfig holds configuration for the plan refresh job.
type RefreshConfig struct {
	// Concurrency is the number of concurrent user refreshes.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for one user's refresh.
	// Default: 30 seconds
	Timeout time.Duration

	// PublishSnapshots enables publishing refreshed snapshots to Pub/Sub.
	// Default: true
	PublishSnapshots bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Concurrency:      3,
		Timeout:          30 * time.Second,
		PublishSnapshots: true,
	}
}

// PubSubEnvConfig holds the Pub/Sub wiring read from the environment.
type PubSubEnvConfig struct {
	ProjectID        string
	TopicName        string
	SubscriptionName string
}

// PubSubConfigFromEnv creates a PubSubEnvConfig from environment variables.
func PubSubConfigFromEnv() PubSubEnvConfig {
	return PubSubEnvConfig{
		ProjectID:        getEnvOrDefault("PUBSUB_PROJECT_ID", "kcalplan"),
		TopicName:        getEnvOrDefault("PUBSUB_SNAPSHOT_TOPIC", "goal-snapshots"),
		SubscriptionName: getEnvOrDefault("PUBSUB_JOB_SUBSCRIPTION", "plan-refresh-jobs"),
	}
}

// RefreshConfigFromEnv creates a RefreshConfig from environment variables,
// falling back to defaults for anything unset or unparsable.
func RefreshConfigFromEnv() RefreshConfig {
	cfg := DefaultRefreshConfig()
	if v, err := strconv.Atoi(os.Getenv("REFRESH_CONCURRENCY")); err == nil && v > 0 {
		cfg.Concurrency = v
	}
	if v, err := time.ParseDuration(os.Getenv("REFRESH_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	if v, err := strconv.ParseBool(os.Getenv("REFRESH_PUBLISH_SNAPSHOTS")); err == nil {
		cfg.PublishSnapshots = v
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
