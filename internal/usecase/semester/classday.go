package semester

import (
	"sort"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// DefaultOffDayHorizon bounds how far ahead NextOffDay searches.
const DefaultOffDayHorizon = 90

// IsClassDay reports whether regular classes run on the given date. Weekends
// are off, as is any date covered by an event that suspends classes.
func IsClassDay(date time.Time, events []domain.AcademicEvent) bool {
	if WeekdayIndex(date) >= 5 {
		return false
	}
	return EventOnDate(date, events) == nil
}

// EventOnDate returns the first event that suspends classes on the given
// date. Overlapping events are not merged, the first match wins.
func EventOnDate(date time.Time, events []domain.AcademicEvent) *domain.AcademicEvent {
	day := DateOnly(date)
	for i := range events {
		if !events[i].AffectsClasses {
			continue
		}
		if covers(&events[i], day) {
			return &events[i]
		}
	}
	return nil
}

// AffectedClasses lists the schedule slots cancelled on the given date. The
// list is empty when no event suspends classes that day.
func AffectedClasses(date time.Time, schedule []domain.ScheduleSlot, events []domain.AcademicEvent) []domain.ScheduleSlot {
	if EventOnDate(date, events) == nil {
		return nil
	}
	weekday := WeekdayIndex(date)
	var affected []domain.ScheduleSlot
	for _, slot := range schedule {
		if slot.DayOfWeek == weekday {
			affected = append(affected, slot)
		}
	}
	return affected
}

// OffDay pairs an upcoming class-suspending event with its first date.
type OffDay struct {
	Date  time.Time
	Event domain.AcademicEvent
}

// NextOffDay finds the nearest future off day within horizonDays. Events
// starting today or earlier are skipped. Ties keep the original event order.
func NextOffDay(today time.Time, events []domain.AcademicEvent, horizonDays int) (OffDay, bool) {
	day := DateOnly(today)

	type candidate struct {
		start time.Time
		event domain.AcademicEvent
	}
	var future []candidate
	for _, event := range events {
		if !event.AffectsClasses {
			continue
		}
		start, ok := ParseDate(event.StartDate)
		if !ok || !start.After(day) {
			continue
		}
		if DaysUntil(start, day) > horizonDays {
			continue
		}
		future = append(future, candidate{start: start, event: event})
	}
	if len(future) == 0 {
		return OffDay{}, false
	}

	sort.SliceStable(future, func(i, j int) bool {
		return future[i].start.Before(future[j].start)
	})
	return OffDay{Date: future[0].start, Event: future[0].event}, true
}
