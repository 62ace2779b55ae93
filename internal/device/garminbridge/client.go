// Package garminbridge implements a device telemetry provider backed by the
// Garmin bridge service, which mirrors watch sync data per user and day.
package garminbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/device/resilience"
)

const (
	// ProviderName identifies this telemetry provider.
	ProviderName = "garminbridge"

	// DefaultBaseURL is the bridge service base URL.
	DefaultBaseURL = "https://garmin-bridge.internal.kcalplan.com/v1"
)

// ClientConfig holds configuration for the Garmin bridge client.
type ClientConfig struct {
	// APIKey authenticates this service to the bridge (required).
	APIKey string

	// BaseURL is the bridge base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Garmin bridge API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Garmin bridge client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// dailySummaryResponse is the bridge wire format for one day of sync data.
type dailySummaryResponse struct {
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	CaloriesIn      float64 `json:"calories_in"`
	CaloriesOut     float64 `json:"calories_out"`
	PartialBurn     float64 `json:"partial_burn"`
	ElapsedFraction float64 `json:"elapsed_fraction"`
	ActiveMinutes   int     `json:"active_minutes"`
	SyncedAt        int64   `json:"synced_at"`
}

// GetDailySummary fetches the summary for one user and calendar day.
func (c *Client) GetDailySummary(ctx context.Context, userID string, date time.Time) (*device.DailySummary, error) {
	endpoint := fmt.Sprintf("%s/users/%s/daily?date=%s",
		c.baseURL, url.PathEscape(userID), date.Format("2006-01-02"))

	header := http.Header{"X-Api-Key": []string{c.apiKey}}

	var bridgeResp dailySummaryResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, header, &bridgeResp); err != nil {
		var statusErr *resilience.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, device.ErrNoData
		}
		return nil, fmt.Errorf("fetching daily summary: %w", err)
	}

	return c.toSummary(&bridgeResp)
}

// bodyProfileResponse is the bridge wire format for account body stats.
type bodyProfileResponse struct {
	UserID        string  `json:"user_id"`
	Sex           string  `json:"sex"`
	BirthDate     string  `json:"birth_date"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	ActivityLevel string  `json:"activity_level"`
}

// GetBodyProfile fetches the current body stats for one user.
func (c *Client) GetBodyProfile(ctx context.Context, userID string) (*device.BodyProfile, error) {
	endpoint := fmt.Sprintf("%s/users/%s/profile", c.baseURL, url.PathEscape(userID))

	header := http.Header{"X-Api-Key": []string{c.apiKey}}

	var bridgeResp bodyProfileResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, header, &bridgeResp); err != nil {
		var statusErr *resilience.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, device.ErrNoData
		}
		return nil, fmt.Errorf("fetching body profile: %w", err)
	}

	birthDate, err := time.Parse("2006-01-02", bridgeResp.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("parsing birth date %q: %w", bridgeResp.BirthDate, err)
	}

	return &device.BodyProfile{
		UserID:        bridgeResp.UserID,
		Sex:           bridgeResp.Sex,
		BirthDate:     birthDate,
		WeightKg:      bridgeResp.WeightKg,
		HeightCm:      bridgeResp.HeightCm,
		ActivityLevel: bridgeResp.ActivityLevel,
	}, nil
}

func (c *Client) toSummary(resp *dailySummaryResponse) (*device.DailySummary, error) {
	day, err := time.Parse("2006-01-02", resp.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing summary date %q: %w", resp.Date, err)
	}

	return &device.DailySummary{
		UserID:             resp.UserID,
		Date:               day,
		EatenKcal:          resp.CaloriesIn,
		BurnedKcal:         resp.CaloriesOut,
		PartialBurnKcal:    resp.PartialBurn,
		ElapsedDayFraction: resp.ElapsedFraction,
		ExerciseMinutes:    resp.ActiveMinutes,
		SyncedAt:           time.Unix(resp.SyncedAt, 0).UTC(),
	}, nil
}
