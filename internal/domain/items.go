package domain

import "time"

// Assignment is a graded deliverable with an escalating reminder ladder.
// LastReminderLevel is 0 before any reminder and grows monotonically to 7.
type Assignment struct {
	ID                int64
	Title             string
	SubjectCode       string
	DueDate           string
	IsCompleted       bool
	CompletedAt       *time.Time
	LastReminderLevel int
}

// Task is a scheduled activity reminded the evening before and two hours ahead.
type Task struct {
	ID               int64
	Title            string
	ScheduledDate    string
	ScheduledTime    string
	Location         string
	IsCompleted      bool
	RemindedOneDay   bool
	RemindedTwoHours bool
}

// TaskCheckpoint names one of the two task reminder flags.
type TaskCheckpoint string

const (
	TaskCheckpointOneDay   TaskCheckpoint = "1day"
	TaskCheckpointTwoHours TaskCheckpoint = "2hours"
)

// Todo is a lightweight entry reminded once, an hour before its time.
// An empty ScheduledDate defaults to today; ScheduledTime is required
// for the reminder to ever fire.
type Todo struct {
	ID            int64
	Title         string
	ScheduledDate string
	ScheduledTime string
	IsCompleted   bool
	Reminded      bool
}

// PendingCounts summarizes open work items per kind.
type PendingCounts struct {
	Assignments int `json:"assignments"`
	Tasks       int `json:"tasks"`
	Todos       int `json:"todos"`
}
