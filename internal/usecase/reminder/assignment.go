package reminder

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/usecase/semester"
)

// AssignmentScanner escalates assignment reminders through the level ladder.
type AssignmentScanner struct {
	assignments domain.AssignmentRepo
	loc         *time.Location
	log         zerolog.Logger
}

// NewAssignmentScanner creates the scanner.
func NewAssignmentScanner(assignments domain.AssignmentRepo, loc *time.Location, log zerolog.Logger) *AssignmentScanner {
	return &AssignmentScanner{assignments: assignments, loc: loc, log: log}
}

// Kind names the scanned work item kind.
func (s *AssignmentScanner) Kind() string { return "assignment" }

// Due returns at most one reminder per assignment, jumping over levels whose
// window already closed.
func (s *AssignmentScanner) Due(now time.Time) ([]Reminder, error) {
	pending, err := s.assignments.PendingAssignments()
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	var due []Reminder
	for _, assignment := range pending {
		if assignment.DueDate == "" {
			continue
		}
		dueAt, ok := semester.ParseDateTimeIn(assignment.DueDate, s.loc)
		if !ok {
			s.log.Warn().Int64("assignment_id", assignment.ID).Str("due_date", assignment.DueDate).Msg("reminder: malformed due date")
			continue
		}

		hoursLeft := semester.HoursUntil(dueAt, now)
		level := nextAssignmentLevel(hoursLeft, assignment.LastReminderLevel)
		if level == 0 {
			continue
		}

		title := assignment.Title
		if assignment.SubjectCode != "" {
			title = fmt.Sprintf("%s (%s)", title, assignment.SubjectCode)
		}

		id := assignment.ID
		due = append(due, Reminder{
			ItemID:     id,
			Checkpoint: fmt.Sprintf("level%d", level),
			Message:    assignmentMessage(level, title, dueAt),
			Advance: func() error {
				return s.assignments.SetAssignmentReminderLevel(id, level)
			},
		})
	}
	return due, nil
}
