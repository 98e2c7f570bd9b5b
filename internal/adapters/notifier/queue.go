package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// Queue publishes notification jobs for the sender worker instead of
// talking to the Bot API inline. Each job carries a fresh UUID so the
// worker can deduplicate redeliveries.
type Queue struct {
	queue domain.NotificationQueue
	clock domain.Clock
}

var _ domain.Notifier = (*Queue)(nil)

// NewQueue creates the queue-backed notifier.
func NewQueue(queue domain.NotificationQueue, clock domain.Clock) *Queue {
	return &Queue{queue: queue, clock: clock}
}

// Send enqueues one delivery job.
func (n *Queue) Send(kind domain.NotificationKind, chatID int64, text string) error {
	job := domain.NotificationJob{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		Kind:        kind,
		Text:        text,
		RequestedAt: n.clock.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
