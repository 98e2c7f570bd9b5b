package reminder

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/usecase/semester"
)

// taskLookaheadDays bounds the scanned window of upcoming tasks.
const taskLookaheadDays = 7

// TaskScanner fires the one-day and two-hour task checkpoints.
type TaskScanner struct {
	tasks domain.TaskRepo
	loc   *time.Location
	log   zerolog.Logger
}

// NewTaskScanner creates the scanner.
func NewTaskScanner(tasks domain.TaskRepo, loc *time.Location, log zerolog.Logger) *TaskScanner {
	return &TaskScanner{tasks: tasks, loc: loc, log: log}
}

// Kind names the scanned work item kind.
func (s *TaskScanner) Kind() string { return "task" }

// Due checks both checkpoints independently. A task without a time of day
// can only ever fire the one-day checkpoint.
func (s *TaskScanner) Due(now time.Time) ([]Reminder, error) {
	today := semester.DateOnly(now)
	upcoming, err := s.tasks.UpcomingTasks(taskLookaheadDays, today)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	var due []Reminder
	for _, task := range upcoming {
		if task.ScheduledDate == "" {
			continue
		}
		taskDate, ok := semester.ParseDate(task.ScheduledDate)
		if !ok {
			s.log.Warn().Int64("task_id", task.ID).Str("scheduled_date", task.ScheduledDate).Msg("reminder: malformed task date")
			continue
		}

		// Evening-before checkpoint, fires from 20:00 local.
		if !task.RemindedOneDay && taskDate.Equal(today.AddDate(0, 0, 1)) && now.Hour() >= 20 {
			id := task.ID
			due = append(due, Reminder{
				ItemID:     id,
				Checkpoint: string(domain.TaskCheckpointOneDay),
				Message:    taskMessage("📋 Task Tomorrow", task),
				Advance: func() error {
					return s.tasks.SetTaskReminded(id, domain.TaskCheckpointOneDay)
				},
			})
		}

		if task.ScheduledTime == "" || task.RemindedTwoHours {
			continue
		}
		hour, minute, ok := semester.ParseClock(task.ScheduledTime)
		if !ok {
			s.log.Warn().Int64("task_id", task.ID).Str("scheduled_time", task.ScheduledTime).Msg("reminder: malformed task time")
			continue
		}
		startsAt := semester.CombineIn(taskDate, hour, minute, s.loc)
		if hoursLeft := semester.HoursUntil(startsAt, now); hoursLeft >= 0 && hoursLeft <= 2 {
			id := task.ID
			due = append(due, Reminder{
				ItemID:     id,
				Checkpoint: string(domain.TaskCheckpointTwoHours),
				Message:    taskMessage("⏰ Task in 2 hours", task),
				Advance: func() error {
					return s.tasks.SetTaskReminded(id, domain.TaskCheckpointTwoHours)
				},
			})
		}
	}
	return due, nil
}

func taskMessage(prefix string, task domain.Task) string {
	message := fmt.Sprintf("%s: %s", prefix, task.Title)
	if task.ScheduledTime != "" {
		message += fmt.Sprintf(" at %s", semester.FormatClock(task.ScheduledTime))
	}
	if task.Location != "" {
		message += fmt.Sprintf("\n📍 %s", task.Location)
	}
	return message
}
