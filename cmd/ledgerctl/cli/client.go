package cli

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	"github.com/procureflow/procureflow/jobs"
)

// jobsClient wraps the Asynq client and inspector used by every subcommand.
type jobsClient struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func newJobsClient(redisAddr string) *jobsClient {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	return &jobsClient{
		client:    asynq.NewClient(opts),
		inspector: asynq.NewInspector(opts),
	}
}

func (c *jobsClient) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Enqueue pushes a prepared task onto the default queue.
func (c *jobsClient) Enqueue(ctx context.Context, task *asynq.Task) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs client not configured")
	}
	return c.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Queue(jobs.QueueDefault))
}

// queueStats summarises the current state of the default queue.
type queueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Archived  int
}

func (c *jobsClient) QueueStats() (queueStats, error) {
	if c == nil || c.inspector == nil {
		return queueStats{}, errors.New("jobs inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return queueStats{}, err
	}
	return queueStats{
		Queue:     info.Queue,
		Pending:   info.Pending,
		Active:    info.Active,
		Scheduled: info.Scheduled,
		Retry:     info.Retry,
		Archived:  info.Archived,
	}, nil
}
