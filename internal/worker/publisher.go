package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/goal"
)

// SnapshotMessage is the wire format for a refreshed goal snapshot.
type SnapshotMessage struct {
	UserID        string            `json:"user_id"`
	Snapshot      goal.GoalSnapshot `json:"snapshot"`
	Budget        goal.EnergyBudget `json:"budget"`
	RemainingKcal float64           `json:"remaining_kcal"`
	ComputedAt    time.Time         `json:"computed_at"`
}

// SnapshotPublisher publishes refreshed snapshots to a Pub/Sub topic.
type SnapshotPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// SnapshotPublisherConfig holds configuration for the snapshot publisher.
type SnapshotPublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewSnapshotPublisher creates a new snapshot publisher.
func NewSnapshotPublisher(ctx context.Context, cfg SnapshotPublisherConfig) (*SnapshotPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &SnapshotPublisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// Publish sends one snapshot message and waits for the server ack.
func (p *SnapshotPublisher) Publish(ctx context.Context, msg *SnapshotMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling snapshot message: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"user_id": msg.UserID,
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}

	p.logger.Debug().
		Str("user_id", msg.UserID).
		Str("message_id", id).
		Str("topic", p.topicName).
		Msg("snapshot published")
	return nil
}

// Close flushes pending messages and closes the client.
func (p *SnapshotPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
