package reminder

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/usecase/semester"
)

// TodoScanner fires the single one-hour todo checkpoint.
type TodoScanner struct {
	todos domain.TodoRepo
	loc   *time.Location
	log   zerolog.Logger
}

// NewTodoScanner creates the scanner.
func NewTodoScanner(todos domain.TodoRepo, loc *time.Location, log zerolog.Logger) *TodoScanner {
	return &TodoScanner{todos: todos, loc: loc, log: log}
}

// Kind names the scanned work item kind.
func (s *TodoScanner) Kind() string { return "todo" }

// Due reminds only todos that carry a time of day. A todo without a date is
// assumed to be scheduled for today.
func (s *TodoScanner) Due(now time.Time) ([]Reminder, error) {
	pending, err := s.todos.PendingTodos()
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	today := semester.DateOnly(now)

	var due []Reminder
	for _, todo := range pending {
		if todo.ScheduledTime == "" || todo.Reminded {
			continue
		}

		todoDate := today
		if todo.ScheduledDate != "" {
			parsed, ok := semester.ParseDate(todo.ScheduledDate)
			if !ok {
				s.log.Warn().Int64("todo_id", todo.ID).Str("scheduled_date", todo.ScheduledDate).Msg("reminder: malformed todo date")
				continue
			}
			todoDate = parsed
		}
		if !todoDate.Equal(today) {
			continue
		}

		hour, minute, ok := semester.ParseClock(todo.ScheduledTime)
		if !ok {
			s.log.Warn().Int64("todo_id", todo.ID).Str("scheduled_time", todo.ScheduledTime).Msg("reminder: malformed todo time")
			continue
		}
		startsAt := semester.CombineIn(todoDate, hour, minute, s.loc)
		if hoursLeft := semester.HoursUntil(startsAt, now); hoursLeft >= 0 && hoursLeft <= 1 {
			id := todo.ID
			due = append(due, Reminder{
				ItemID:     id,
				Checkpoint: "1hour",
				Message:    todoMessage(todo),
				Advance: func() error {
					return s.todos.SetTodoReminded(id)
				},
			})
		}
	}
	return due, nil
}

func todoMessage(todo domain.Todo) string {
	message := fmt.Sprintf("⏰ TODO Reminder: %s", todo.Title)
	if todo.ScheduledTime != "" {
		message += fmt.Sprintf(" at %s", semester.FormatClock(todo.ScheduledTime))
	}
	return message
}
