package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
)

// AMQPNotificationQueue carries notification jobs over a durable RabbitMQ
// queue. Messages are persistent and acked manually, a failed job goes back
// to the queue for redelivery.
type AMQPNotificationQueue struct {
	url   string
	queue string

	mu         sync.Mutex
	conn       *amqp.Connection
	pubCh      *amqp.Channel
	deliveries <-chan amqp.Delivery
}

var _ domain.NotificationQueue = (*AMQPNotificationQueue)(nil)

// NewAMQPNotificationQueue dials the broker and declares the queue.
func NewAMQPNotificationQueue(url, queueName string) (*AMQPNotificationQueue, error) {
	if url == "" {
		return nil, errors.New("amqp url is empty")
	}
	if queueName == "" {
		return nil, errors.New("queue name is empty")
	}
	q := &AMQPNotificationQueue{url: url, queue: queueName}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ensureConnLocked(); err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return q, nil
}

// Close releases the broker connection.
func (q *AMQPNotificationQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	conn := q.conn
	q.conn = nil
	q.pubCh = nil
	q.deliveries = nil
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Enqueue publishes a job to the queue.
func (q *AMQPNotificationQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ch, err := q.publisherChannel()
	if err != nil {
		return err
	}

	start := time.Now()
	err = ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	metrics.ObserveNetworkRequest("rabbitmq", "publish", q.queue, start, err)
	if err != nil {
		q.invalidate()
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Receive blocks until a job arrives. The returned ack either confirms the
// delivery or sends the message back for another attempt.
func (q *AMQPNotificationQueue) Receive(ctx context.Context) (domain.NotificationJob, domain.AckFunc, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.NotificationJob{}, nil, err
		}

		deliveries, err := q.consumerDeliveries()
		if err != nil {
			return domain.NotificationJob{}, nil, err
		}

		select {
		case <-ctx.Done():
			return domain.NotificationJob{}, nil, ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				// Broker dropped the consumer, redial on the next pass.
				q.invalidate()
				continue
			}
			var job domain.NotificationJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				// Redelivery cannot fix a malformed payload.
				_ = d.Nack(false, false)
				return domain.NotificationJob{}, nil, fmt.Errorf("decode job: %w", err)
			}
			ack := func(success bool) error {
				if success {
					return d.Ack(false)
				}
				return d.Nack(false, true)
			}
			return job, ack, nil
		}
	}
}

func (q *AMQPNotificationQueue) publisherChannel() (*amqp.Channel, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ensureConnLocked(); err != nil {
		return nil, err
	}
	if q.pubCh != nil {
		return q.pubCh, nil
	}
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publish channel: %w", err)
	}
	q.pubCh = ch
	return ch, nil
}

func (q *AMQPNotificationQueue) consumerDeliveries() (<-chan amqp.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ensureConnLocked(); err != nil {
		return nil, err
	}
	if q.deliveries != nil {
		return q.deliveries, nil
	}
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open consume channel: %w", err)
	}
	// One unacked job at a time keeps redelivery ordering simple.
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("start consumer: %w", err)
	}
	q.deliveries = deliveries
	return deliveries, nil
}

func (q *AMQPNotificationQueue) ensureConnLocked() error {
	if q.conn != nil && !q.conn.IsClosed() {
		return nil
	}
	q.pubCh = nil
	q.deliveries = nil

	start := time.Now()
	conn, err := amqp.Dial(q.url)
	metrics.ObserveNetworkRequest("rabbitmq", "dial", q.queue, start, err)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open declare channel: %w", err)
	}
	if _, err := ch.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}
	_ = ch.Close()
	q.conn = conn
	return nil
}

func (q *AMQPNotificationQueue) invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.conn != nil {
		_ = q.conn.Close()
	}
	q.conn = nil
	q.pubCh = nil
	q.deliveries = nil
}
