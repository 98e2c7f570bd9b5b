package reminder

import "time"

// Reminder is one notification that became due for a work item.
type Reminder struct {
	ItemID     int64
	Checkpoint string
	Message    string
	// Advance persists the progress marker so the checkpoint never fires again.
	Advance func() error
}

// ProgressScanner walks one kind of work item and reports due reminders.
// Items with malformed stored dates are logged and skipped, a bad row never
// stops the scan.
type ProgressScanner interface {
	Kind() string
	Due(now time.Time) ([]Reminder, error)
}
