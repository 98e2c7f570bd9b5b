package domain

import (
	"context"
	"time"
)

// NotificationKind labels the scheduler job that produced an outbound message.
type NotificationKind string

const (
	NotificationClassBriefing    NotificationKind = "class_briefing"
	NotificationOffdayAlert      NotificationKind = "offday_alert"
	NotificationTodoReview       NotificationKind = "todo_review"
	NotificationSemesterStarting NotificationKind = "semester_starting"
	NotificationAssignment       NotificationKind = "assignment"
	NotificationTask             NotificationKind = "task"
	NotificationTodo             NotificationKind = "todo"
)

// NotificationJob is one outbound message queued for delivery.
type NotificationJob struct {
	ID          string           `json:"job_id,omitempty"`
	ChatID      int64            `json:"chat_id"`
	Kind        NotificationKind `json:"kind"`
	Text        string           `json:"text"`
	RequestedAt time.Time        `json:"requested_at"`
}

// NotificationQueue transports jobs between the scheduler and the sender worker.
type NotificationQueue interface {
	Enqueue(ctx context.Context, job NotificationJob) error
	Receive(ctx context.Context) (NotificationJob, AckFunc, error)
}

// AckFunc confirms processing or asks the queue to redeliver the job.
type AckFunc func(success bool) error

// JobStatusRepo tracks delivery state so redelivered jobs are not sent twice.
type JobStatusRepo interface {
	// EnsureNotificationJob registers a processing attempt and reports whether
	// the job was already delivered, plus the current attempt number.
	EnsureNotificationJob(jobID string) (delivered bool, attempt int, err error)
	// MarkNotificationJobDelivered finalizes the job.
	MarkNotificationJobDelivered(jobID string) error
}
