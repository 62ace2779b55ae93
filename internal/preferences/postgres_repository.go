package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kcalplan/kcalplan/internal/goal"
)

// PostgresRepository is a PostgreSQL implementation of Repository. The
// document is stored as JSONB with the adjustment mode lifted into its own
// column so the worker's device-projection listing stays an index scan.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL preferences repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a user's stored preferences.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Preferences, error) {
	query := `
		SELECT document, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var (
		document  []byte
		updatedAt time.Time
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(&document, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(document, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences document: %w", err)
	}
	prefs.UserID = userID
	prefs.UpdatedAt = updatedAt

	return &prefs, nil
}

// Upsert stores a user's preferences, replacing any existing row.
func (r *PostgresRepository) Upsert(ctx context.Context, prefs *Preferences) error {
	document, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences document: %w", err)
	}

	query := `
		INSERT INTO user_preferences (user_id, adjustment_mode, document, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE
		SET adjustment_mode = EXCLUDED.adjustment_mode,
		    document = EXCLUDED.document,
		    updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, prefs.UserID, string(prefs.Adjustment.Mode), document); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

// Delete removes a user's stored preferences.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

// ListDeviceProjectionUsers returns IDs of users in device-projection mode.
func (r *PostgresRepository) ListDeviceProjectionUsers(ctx context.Context) ([]string, error) {
	query := `
		SELECT user_id
		FROM user_preferences
		WHERE adjustment_mode = $1
		ORDER BY user_id
	`

	rows, err := r.pool.Query(ctx, query, string(goal.AdjustDeviceProjection))
	if err != nil {
		return nil, fmt.Errorf("list device-projection users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return userIDs, nil
}
