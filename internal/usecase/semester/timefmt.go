package semester

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// DateLayout is the storage format for calendar dates.
const DateLayout = "2006-01-02"

// ClockLayout is the storage format for times of day.
const ClockLayout = "15:04"

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseDate parses a stored date string. Datetime strings are accepted and
// truncated to their date part. The returned value is a UTC midnight so that
// date-only comparisons are location independent.
func ParseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}

// ParseDateTimeIn parses a stored datetime string as wall time in loc.
func ParseDateTimeIn(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseClock parses an "HH:MM" string into hour and minute components.
func ParseClock(raw string) (hour, minute int, ok bool) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// DateOnly truncates t to a UTC midnight keeping the calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CombineIn builds a wall-clock datetime from a date and clock components in loc.
func CombineIn(d time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

// WeekdayIndex maps a date to the 0=Monday .. 6=Sunday convention used by the
// stored schedule.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FormatDate renders a date like "Monday, 20 Oct 2025", localizing the day
// name. Without the day name the result is "20 Oct 2025".
func FormatDate(d time.Time, lang domain.Language, includeDay bool) string {
	if includeDay {
		return fmt.Sprintf("%s, %s", lang.DayName(WeekdayIndex(d)), d.Format("02 Jan 2006"))
	}
	return d.Format("02 Jan 2006")
}

// FormatClock converts a stored "HH:MM" time to a compact 12h form such as
// "8AM" or "2:30PM". Values that do not parse are returned unchanged.
func FormatClock(raw string) string {
	hour, minute, ok := ParseClock(raw)
	if !ok {
		return raw
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	if display > 12 {
		display -= 12
	}
	if display == 0 {
		display = 12
	}
	if minute == 0 {
		return fmt.Sprintf("%d%s", display, period)
	}
	return fmt.Sprintf("%d:%02d%s", display, minute, period)
}

// DaysUntil counts whole calendar days from one date to another, negative when
// the target is in the past.
func DaysUntil(target, from time.Time) int {
	return int(DateOnly(target).Sub(DateOnly(from)) / (24 * time.Hour))
}

// HoursUntil measures the remaining time to target in fractional hours.
func HoursUntil(target, from time.Time) float64 {
	return target.Sub(from).Hours()
}
