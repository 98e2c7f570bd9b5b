package clock

import (
	"fmt"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// System is the engine clock pinned to one timezone. Cron matching and all
// date math run in this location.
type System struct {
	loc *time.Location
}

var _ domain.Clock = System{}

// NewSystem loads the configured timezone.
func NewSystem(tz string) (System, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return System{}, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return System{loc: loc}, nil
}

// Now returns the current time in the engine timezone.
func (c System) Now() time.Time { return time.Now().In(c.loc) }

// Today returns midnight of the current date in the engine timezone.
func (c System) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

// Location exposes the engine timezone for due-datetime parsing.
func (c System) Location() *time.Location { return c.loc }
