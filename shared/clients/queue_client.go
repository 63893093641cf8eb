package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QueueClient pushes opaque background jobs onto a redis list consumed by an
// external worker. The marketplace only enqueues; it neither runs the worker
// nor waits for job completion, and delivery is at-least-once from the
// queue's point of view.
type QueueClient struct {
	rdb       *redis.Client
	queueName string
}

func NewQueueClient(rdb *redis.Client, queueName string) *QueueClient {
	return &QueueClient{rdb: rdb, queueName: queueName}
}

type job struct {
	Type       string `json:"type"`
	RequestID  string `json:"request_id"`
	EnqueuedAt string `json:"enqueued_at"`
}

// EnqueueRequestPublished queues the marketplace fan-out job for a freshly
// published request.
func (qc *QueueClient) EnqueueRequestPublished(ctx context.Context, requestID uuid.UUID) error {
	payload, err := json.Marshal(job{
		Type:       "request.published",
		RequestID:  requestID.String(),
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := qc.rdb.LPush(ctx, qc.queueName, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}
