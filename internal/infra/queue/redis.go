package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// RedisNotificationQueue carries notification jobs over a Redis list.
type RedisNotificationQueue struct {
	client *redis.Client
	key    string
}

var _ domain.NotificationQueue = (*RedisNotificationQueue)(nil)

// NewRedisNotificationQueue creates a queue on the given list key.
func NewRedisNotificationQueue(client *redis.Client, key string) *RedisNotificationQueue {
	return &RedisNotificationQueue{client: client, key: key}
}

// Enqueue publishes a job to the queue.
func (q *RedisNotificationQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Receive blocks until a job arrives. BRPop removes the element, so the ack
// pushes the payload back on failure instead of leaving it in flight.
func (q *RedisNotificationQueue) Receive(ctx context.Context) (domain.NotificationJob, domain.AckFunc, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.NotificationJob{}, nil, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.NotificationJob{}, nil, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.NotificationJob{}, nil, err
		}
		if len(res) != 2 {
			return domain.NotificationJob{}, nil, errors.New("redis queue: unexpected response")
		}

		payload := res[1]
		var job domain.NotificationJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			return domain.NotificationJob{}, nil, fmt.Errorf("decode job: %w", err)
		}

		ack := func(success bool) error {
			if success {
				return nil
			}
			// Requeue must survive a shutdown, hence the detached context.
			requeueCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := q.client.LPush(requeueCtx, q.key, payload).Err(); err != nil {
				return fmt.Errorf("requeue job: %w", err)
			}
			return nil
		}
		return job, ack, nil
	}
}
