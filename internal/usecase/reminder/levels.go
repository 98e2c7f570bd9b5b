package reminder

import (
	"fmt"
	"time"
)

// MaxAssignmentLevel is the final escalation level, fired when the deadline
// is reached.
const MaxAssignmentLevel = 7

// assignmentThresholds maps escalation levels 1..7 to hours before the due
// time. Thresholds are strictly decreasing so at most one level applies per
// scan.
var assignmentThresholds = [MaxAssignmentLevel + 1]float64{
	1: 72,
	2: 48,
	3: 24,
	4: 8,
	5: 3,
	6: 1,
	7: 0,
}

// nextAssignmentLevel picks the level to fire, or 0 when nothing is due.
// The scan keeps the most urgent crossed level, so when several thresholds
// passed between scans the missed intermediate levels are skipped and only
// one reminder goes out.
func nextAssignmentLevel(hoursLeft float64, currentLevel int) int {
	next := 0
	for level := currentLevel + 1; level <= MaxAssignmentLevel; level++ {
		if hoursLeft > assignmentThresholds[level] {
			break
		}
		next = level
	}
	return next
}

func assignmentMessage(level int, title string, dueAt time.Time) string {
	dueDate := dueAt.Format("Mon 02 Jan")
	dueTime := dueAt.Format("03:04PM")

	var body string
	switch level {
	case 1:
		body = fmt.Sprintf("Assignment '%s' due in 3 days (%s)", title, dueDate)
	case 2:
		body = fmt.Sprintf("Assignment '%s' due in 2 days (%s)", title, dueDate)
	case 3:
		body = fmt.Sprintf("Assignment '%s' due TOMORROW at %s!", title, dueTime)
	case 4:
		body = fmt.Sprintf("8 hours left for '%s'!", title)
	case 5:
		body = fmt.Sprintf("Only 3 hours left for '%s'!", title)
	case 6:
		body = fmt.Sprintf("URGENT: 1 hour remaining for '%s'!", title)
	case 7:
		body = fmt.Sprintf("Assignment '%s' is NOW DUE!", title)
	default:
		body = fmt.Sprintf("Reminder for '%s'", title)
	}
	return "⏰ " + body
}
