package domain

import "time"

// CalendarRepo supplies academic events and the weekly class timetable.
type CalendarRepo interface {
	AllEvents() ([]AcademicEvent, error)
	AllScheduleSlots() ([]ScheduleSlot, error)
	ScheduleForDay(weekday int) ([]ScheduleSlot, error)
	ReplaceEvents(events []AcademicEvent) error
}

// AssignmentRepo manages assignments pending escalating reminders.
type AssignmentRepo interface {
	PendingAssignments() ([]Assignment, error)
	SetAssignmentReminderLevel(id int64, level int) error
}

// TaskRepo manages scheduled tasks.
type TaskRepo interface {
	UpcomingTasks(days int, today time.Time) ([]Task, error)
	SetTaskReminded(id int64, checkpoint TaskCheckpoint) error
}

// TodoRepo manages todo entries.
type TodoRepo interface {
	PendingTodos() ([]Todo, error)
	TodosWithoutTime() ([]Todo, error)
	SetTodoReminded(id int64) error
}

// StatsRepo serves the read-only API.
type StatsRepo interface {
	CountPending() (PendingCounts, error)
}

// UserRepo manages per-chat configuration and notification preferences.
type UserRepo interface {
	AllChatIDs() ([]int64, error)
	GetByChatID(chatID int64) (UserConfig, error)
	UpsertConfig(cfg UserConfig) (UserConfig, error)
	SetMutedUntil(chatID int64, until *time.Time) error
	IsMuted(chatID int64, now time.Time) (bool, error)
	NotificationSetting(chatID int64, key string) (bool, error)
}

// Notifier delivers one message to one chat. Implementations either talk to
// the Bot API directly or publish a NotificationJob for the sender worker.
type Notifier interface {
	Send(kind NotificationKind, chatID int64, text string) error
}

// Clock supplies the engine's idea of now and today.
// Today is midnight of the current date in the engine timezone.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// OnceGuard runs fn at most once per key within ttl.
type OnceGuard interface {
	Once(key string, ttl time.Duration, fn func() error) error
}
