package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks.
type Client struct {
	inner *asynq.Client
}

// NewClient constructs a Client talking to the given Redis address.
func NewClient(redisAddr string) *Client {
	return &Client{inner: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.inner.Close()
}

// EnqueueMail schedules an email with bounded retries.
func (c *Client) EnqueueMail(ctx context.Context, p MailPayload) error {
	task, err := NewMailTask(p)
	if err != nil {
		return fmt.Errorf("jobs: build mail task: %w", err)
	}
	_, err = c.inner.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Queue("mail"),
	)
	if err != nil {
		return fmt.Errorf("jobs: enqueue mail: %w", err)
	}
	return nil
}
