package preferences

import "context"

// Repository defines the interface for preference storage.
type Repository interface {
	Get(ctx context.Context, userID string) (*Preferences, error)
	Upsert(ctx context.Context, prefs *Preferences) error
	Delete(ctx context.Context, userID string) error

	// ListDeviceProjectionUsers returns the IDs of users whose adjustment
	// mode is device-projection, for the nightly refresh worker.
	ListDeviceProjectionUsers(ctx context.Context) ([]string, error)
}
