package domain

import "time"

// UserConfig holds the per-chat engine settings.
type UserConfig struct {
	ID                 int64
	ChatID             int64
	SemesterStartDate  string
	MidnightTodoReview bool
	Timezone           string
	MutedUntil         *time.Time
	Language           Language
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Notification setting keys understood by UserRepo.NotificationSetting.
const (
	SettingMidnightTodoReview = "midnight_todo_review"
)
