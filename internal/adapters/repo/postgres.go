package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
)

// Postgres implements the store interfaces on pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ domain.CalendarRepo   = (*Postgres)(nil)
	_ domain.AssignmentRepo = (*Postgres)(nil)
	_ domain.TaskRepo       = (*Postgres)(nil)
	_ domain.TodoRepo       = (*Postgres)(nil)
	_ domain.StatsRepo      = (*Postgres)(nil)
	_ domain.UserRepo       = (*Postgres)(nil)
	_ domain.JobStatusRepo  = (*Postgres)(nil)
)

// NewPostgres creates the database adapter.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// AllEvents returns the academic calendar ordered by start date.
func (p *Postgres) AllEvents() ([]domain.AcademicEvent, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, event_type, name, name_en, start_date, end_date, affects_classes
FROM events
ORDER BY start_date, id
`)
	metrics.ObserveNetworkRequest("postgres", "events_list", "events", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AcademicEvent
	for rows.Next() {
		var (
			event   domain.AcademicEvent
			nameEn  sql.NullString
			endDate sql.NullString
		)
		if err := rows.Scan(&event.ID, &event.EventType, &event.Name, &nameEn, &event.StartDate, &endDate, &event.AffectsClasses); err != nil {
			return nil, err
		}
		event.NameEn = nameEn.String
		event.EndDate = endDate.String
		events = append(events, event)
	}
	return events, rows.Err()
}

// AllScheduleSlots returns the whole weekly timetable.
func (p *Postgres) AllScheduleSlots() ([]domain.ScheduleSlot, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, day_of_week, start_time, end_time, subject_code, subject_name, class_type, room, lecturer_name
FROM schedule
ORDER BY day_of_week, start_time, id
`)
	metrics.ObserveNetworkRequest("postgres", "schedule_list", "schedule", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

// ScheduleForDay returns the timetable for one weekday, 0=Monday.
func (p *Postgres) ScheduleForDay(weekday int) ([]domain.ScheduleSlot, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, day_of_week, start_time, end_time, subject_code, subject_name, class_type, room, lecturer_name
FROM schedule
WHERE day_of_week=$1
ORDER BY start_time, id
`, weekday)
	metrics.ObserveNetworkRequest("postgres", "schedule_for_day", "schedule", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func collectSlots(rows pgx.Rows) ([]domain.ScheduleSlot, error) {
	var slots []domain.ScheduleSlot
	for rows.Next() {
		var (
			slot        domain.ScheduleSlot
			subjectName sql.NullString
			room        sql.NullString
			lecturer    sql.NullString
		)
		if err := rows.Scan(&slot.ID, &slot.DayOfWeek, &slot.StartTime, &slot.EndTime, &slot.SubjectCode, &subjectName, &slot.ClassType, &room, &lecturer); err != nil {
			return nil, err
		}
		slot.SubjectName = subjectName.String
		slot.Room = room.String
		slot.LecturerName = lecturer.String
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// ReplaceEvents swaps the whole calendar in one transaction, used by the
// seasonal calendar reload.
func (p *Postgres) ReplaceEvents(events []domain.AcademicEvent) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	metrics.ObserveNetworkRequest("postgres", "begin_tx", "events", start, err)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	start = time.Now()
	_, err = tx.Exec(ctx, `DELETE FROM events`)
	metrics.ObserveNetworkRequest("postgres", "events_delete_all", "events", start, err)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, event := range events {
		batch.Queue(`
INSERT INTO events (event_type, name, name_en, start_date, end_date, affects_classes)
VALUES ($1, $2, NULLIF($3,''), $4, NULLIF($5,''), $6)
`, event.EventType, event.Name, event.NameEn, event.StartDate, event.EndDate, event.AffectsClasses)
	}
	start = time.Now()
	br := tx.SendBatch(ctx, batch)
	metrics.ObserveNetworkRequest("postgres", "events_send_batch", "events", start, nil)
	for range events {
		start = time.Now()
		_, err := br.Exec()
		metrics.ObserveNetworkRequest("postgres", "events_batch_exec", "events", start, err)
		if err != nil {
			_ = br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	start = time.Now()
	err = tx.Commit(ctx)
	metrics.ObserveNetworkRequest("postgres", "commit", "events", start, err)
	return err
}

// PendingAssignments returns assignments still waiting for completion.
func (p *Postgres) PendingAssignments() ([]domain.Assignment, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, title, subject_code, due_date, is_completed, completed_at, last_reminder_level
FROM assignments
WHERE NOT is_completed
ORDER BY due_date, id
`)
	metrics.ObserveNetworkRequest("postgres", "assignments_pending", "assignments", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var (
			a           domain.Assignment
			subjectCode sql.NullString
			completedAt sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Title, &subjectCode, &a.DueDate, &a.IsCompleted, &completedAt, &a.LastReminderLevel); err != nil {
			return nil, err
		}
		a.SubjectCode = subjectCode.String
		if completedAt.Valid {
			ts := completedAt.Time
			a.CompletedAt = &ts
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// SetAssignmentReminderLevel persists the escalation progress.
func (p *Postgres) SetAssignmentReminderLevel(id int64, level int) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `UPDATE assignments SET last_reminder_level=$2 WHERE id=$1`, id, level)
	metrics.ObserveNetworkRequest("postgres", "assignments_set_level", "assignments", start, err)
	return err
}

// UpcomingTasks returns open tasks scheduled within the next days.
func (p *Postgres) UpcomingTasks(days int, today time.Time) ([]domain.Task, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	from := today.Format("2006-01-02")
	to := today.AddDate(0, 0, days).Format("2006-01-02")

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, title, scheduled_date, scheduled_time, location, is_completed, reminded_1day, reminded_2hours
FROM tasks
WHERE NOT is_completed AND scheduled_date >= $1 AND scheduled_date <= $2
ORDER BY scheduled_date, scheduled_time, id
`, from, to)
	metrics.ObserveNetworkRequest("postgres", "tasks_upcoming", "tasks", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var (
			t             domain.Task
			scheduledTime sql.NullString
			location      sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.ScheduledDate, &scheduledTime, &location, &t.IsCompleted, &t.RemindedOneDay, &t.RemindedTwoHours); err != nil {
			return nil, err
		}
		t.ScheduledTime = scheduledTime.String
		t.Location = location.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTaskReminded marks one of the two task checkpoints as fired.
func (p *Postgres) SetTaskReminded(id int64, checkpoint domain.TaskCheckpoint) error {
	var column string
	switch checkpoint {
	case domain.TaskCheckpointOneDay:
		column = "reminded_1day"
	case domain.TaskCheckpointTwoHours:
		column = "reminded_2hours"
	default:
		return fmt.Errorf("unknown task checkpoint %q", checkpoint)
	}

	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `UPDATE tasks SET `+column+`=TRUE WHERE id=$1`, id)
	metrics.ObserveNetworkRequest("postgres", "tasks_set_reminded", "tasks", start, err)
	return err
}

// PendingTodos returns open todo entries.
func (p *Postgres) PendingTodos() ([]domain.Todo, error) {
	return p.listTodos(`
SELECT id, title, scheduled_date, scheduled_time, is_completed, reminded
FROM todos
WHERE NOT is_completed
ORDER BY id
`, "todos_pending")
}

// TodosWithoutTime returns open todos with no time of day, the midnight
// review set.
func (p *Postgres) TodosWithoutTime() ([]domain.Todo, error) {
	return p.listTodos(`
SELECT id, title, scheduled_date, scheduled_time, is_completed, reminded
FROM todos
WHERE NOT is_completed AND (scheduled_time IS NULL OR scheduled_time = '')
ORDER BY id
`, "todos_without_time")
}

func (p *Postgres) listTodos(query, operation string) ([]domain.Todo, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, query)
	metrics.ObserveNetworkRequest("postgres", operation, "todos", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var (
			todo          domain.Todo
			scheduledDate sql.NullString
			scheduledTime sql.NullString
		)
		if err := rows.Scan(&todo.ID, &todo.Title, &scheduledDate, &scheduledTime, &todo.IsCompleted, &todo.Reminded); err != nil {
			return nil, err
		}
		todo.ScheduledDate = scheduledDate.String
		todo.ScheduledTime = scheduledTime.String
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// SetTodoReminded marks a todo reminder as fired.
func (p *Postgres) SetTodoReminded(id int64) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `UPDATE todos SET reminded=TRUE WHERE id=$1`, id)
	metrics.ObserveNetworkRequest("postgres", "todos_set_reminded", "todos", start, err)
	return err
}

// CountPending returns the open item counts behind the stats endpoint.
func (p *Postgres) CountPending() (domain.PendingCounts, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var counts domain.PendingCounts
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT
    (SELECT count(*) FROM assignments WHERE NOT is_completed),
    (SELECT count(*) FROM tasks WHERE NOT is_completed),
    (SELECT count(*) FROM todos WHERE NOT is_completed)
`).Scan(&counts.Assignments, &counts.Tasks, &counts.Todos)
	metrics.ObserveNetworkRequest("postgres", "count_pending", "stats", start, err)
	return counts, err
}

// AllChatIDs returns every registered chat.
func (p *Postgres) AllChatIDs() ([]int64, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `SELECT telegram_chat_id FROM user_config ORDER BY id`)
	metrics.ObserveNetworkRequest("postgres", "user_config_chat_ids", "user_config", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, err
		}
		chatIDs = append(chatIDs, chatID)
	}
	return chatIDs, rows.Err()
}

// GetByChatID returns the config for one chat.
func (p *Postgres) GetByChatID(chatID int64) (domain.UserConfig, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var (
		cfg           domain.UserConfig
		semesterStart sql.NullString
		mutedUntil    sql.NullTime
	)
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT id, telegram_chat_id, semester_start_date, midnight_todo_review, timezone, muted_until, language, created_at, updated_at
FROM user_config WHERE telegram_chat_id=$1
`, chatID).Scan(&cfg.ID, &cfg.ChatID, &semesterStart, &cfg.MidnightTodoReview, &cfg.Timezone, &mutedUntil, &cfg.Language, &cfg.CreatedAt, &cfg.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "user_config_get", "user_config", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserConfig{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserConfig{}, err
	}
	cfg.SemesterStartDate = semesterStart.String
	if mutedUntil.Valid {
		ts := mutedUntil.Time
		cfg.MutedUntil = &ts
	}
	return cfg, nil
}

// UpsertConfig registers a chat or updates its settings.
func (p *Postgres) UpsertConfig(cfg domain.UserConfig) (domain.UserConfig, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var (
		saved         domain.UserConfig
		semesterStart sql.NullString
		mutedUntil    sql.NullTime
	)
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
INSERT INTO user_config (telegram_chat_id, semester_start_date, midnight_todo_review, timezone, language)
VALUES ($1, NULLIF($2,''), $3, COALESCE(NULLIF($4,''),'Asia/Kuala_Lumpur'), COALESCE(NULLIF($5,''),'en'))
ON CONFLICT (telegram_chat_id) DO UPDATE
    SET semester_start_date = EXCLUDED.semester_start_date,
        midnight_todo_review = EXCLUDED.midnight_todo_review,
        timezone = EXCLUDED.timezone,
        language = EXCLUDED.language,
        updated_at = now()
RETURNING id, telegram_chat_id, semester_start_date, midnight_todo_review, timezone, muted_until, language, created_at, updated_at
`, cfg.ChatID, cfg.SemesterStartDate, cfg.MidnightTodoReview, cfg.Timezone, string(cfg.Language)).
		Scan(&saved.ID, &saved.ChatID, &semesterStart, &saved.MidnightTodoReview, &saved.Timezone, &mutedUntil, &saved.Language, &saved.CreatedAt, &saved.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "user_config_upsert", "user_config", start, err)
	if err != nil {
		return domain.UserConfig{}, err
	}
	saved.SemesterStartDate = semesterStart.String
	if mutedUntil.Valid {
		ts := mutedUntil.Time
		saved.MutedUntil = &ts
	}
	return saved, nil
}

// SetMutedUntil mutes the chat until the given moment, nil lifts the mute.
func (p *Postgres) SetMutedUntil(chatID int64, until *time.Time) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	var value sql.NullTime
	if until != nil {
		value = sql.NullTime{Time: *until, Valid: true}
	}

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
UPDATE user_config SET muted_until=$2, updated_at=now() WHERE telegram_chat_id=$1
`, chatID, value)
	metrics.ObserveNetworkRequest("postgres", "user_config_set_muted", "user_config", start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// IsMuted reports whether the chat has an active mute window.
func (p *Postgres) IsMuted(chatID int64, now time.Time) (bool, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var mutedUntil sql.NullTime
	start := time.Now()
	err := p.pool.QueryRow(ctx, `SELECT muted_until FROM user_config WHERE telegram_chat_id=$1`, chatID).Scan(&mutedUntil)
	metrics.ObserveNetworkRequest("postgres", "user_config_is_muted", "user_config", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrUserNotFound
	}
	if err != nil {
		return false, err
	}
	return mutedUntil.Valid && now.Before(mutedUntil.Time), nil
}

// NotificationSetting reads one per-chat notification toggle.
func (p *Postgres) NotificationSetting(chatID int64, key string) (bool, error) {
	var column string
	switch key {
	case domain.SettingMidnightTodoReview:
		column = "midnight_todo_review"
	default:
		return false, fmt.Errorf("unknown notification setting %q", key)
	}

	ctx, cancel := p.connCtx()
	defer cancel()

	var enabled bool
	start := time.Now()
	err := p.pool.QueryRow(ctx, `SELECT `+column+` FROM user_config WHERE telegram_chat_id=$1`, chatID).Scan(&enabled)
	metrics.ObserveNetworkRequest("postgres", "user_config_setting", "user_config", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrUserNotFound
	}
	if err != nil {
		return false, err
	}
	return enabled, nil
}

// EnsureNotificationJob registers a processing attempt for the job.
func (p *Postgres) EnsureNotificationJob(jobID string) (bool, int, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	var (
		delivered sql.NullTime
		attempts  int
	)
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
INSERT INTO notification_job_statuses (job_id, attempts, updated_at)
VALUES ($1, 1, now())
ON CONFLICT (job_id) DO UPDATE
    SET attempts = notification_job_statuses.attempts + 1,
        updated_at = now()
RETURNING delivered_at, attempts
`, jobID).Scan(&delivered, &attempts)
	metrics.ObserveNetworkRequest("postgres", "notification_jobs_upsert", "notification_job_statuses", start, err)
	if err != nil {
		return false, 0, err
	}
	return delivered.Valid, attempts, nil
}

// MarkNotificationJobDelivered finalizes the job.
func (p *Postgres) MarkNotificationJobDelivered(jobID string) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
UPDATE notification_job_statuses
SET delivered_at = COALESCE(delivered_at, now()),
    updated_at = now()
WHERE job_id = $1
`, jobID)
	metrics.ObserveNetworkRequest("postgres", "notification_jobs_mark_delivered", "notification_job_statuses", start, err)
	return err
}
