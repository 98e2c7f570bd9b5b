package semester

import (
	"fmt"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// Labels returned when the date falls outside numbered lecture weeks.
const (
	LabelBeforeSemester = "Before semester starts"
	LabelSemesterEnded  = "Semester ended"

	fallbackMidBreak   = "Mid Semester Break"
	fallbackInterBreak = "Inter-semester Break"
)

// lectureWeeks is the number of counted lecture weeks in one semester.
const lectureWeeks = 14

// WeekResult is either a lecture week number or a descriptive period label.
type WeekResult struct {
	Number int
	Label  string
}

// IsWeek reports whether the result is a numbered lecture week.
func (w WeekResult) IsWeek() bool { return w.Number > 0 }

// String renders the result for display.
func (w WeekResult) String() string {
	if w.IsWeek() {
		return fmt.Sprintf("Week %d", w.Number)
	}
	return w.Label
}

func weekNumber(n int) WeekResult { return WeekResult{Number: n} }

func weekLabel(text string) WeekResult { return WeekResult{Label: text} }

func breakLabel(event *domain.AcademicEvent, fallback string) string {
	if event.NameEn != "" {
		return event.NameEn
	}
	if event.Name != "" {
		return event.Name
	}
	return fallback
}

// CurrentWeek computes where today sits in the semester. The semester runs
// fourteen counted lecture weeks with a one-week mid-semester break between
// them that is not counted, followed by the inter-semester break.
func CurrentWeek(today, semesterStart time.Time, events []domain.AcademicEvent) WeekResult {
	day := DateOnly(today)
	start := DateOnly(semesterStart)

	if day.Before(start) {
		return weekLabel(LabelBeforeSemester)
	}

	daysElapsed := int(day.Sub(start) / (24 * time.Hour))
	calendarWeek := daysElapsed/7 + 1

	midBreak, interBreak := AllBreaks(events)

	if interBreak != nil {
		if covers(interBreak, day) {
			return weekLabel(breakLabel(interBreak, fallbackInterBreak))
		}
	}
	if midBreak != nil {
		if covers(midBreak, day) {
			return weekLabel(breakLabel(midBreak, fallbackMidBreak))
		}
	}

	// The mid-semester break week is not a lecture week.
	lectureWeek := calendarWeek
	if midBreak != nil {
		if end, ok := ParseDate(midBreak.EndDate); ok && day.After(end) {
			lectureWeek = calendarWeek - 1
		}
	}

	if lectureWeek > lectureWeeks {
		if interBreak != nil {
			return weekLabel(breakLabel(interBreak, fallbackInterBreak))
		}
		return weekLabel(LabelSemesterEnded)
	}

	if lectureWeek < 1 {
		lectureWeek = 1
	}
	return weekNumber(lectureWeek)
}

// NextWeek computes the result for the same weekday one week ahead.
func NextWeek(today, semesterStart time.Time, events []domain.AcademicEvent) WeekResult {
	return CurrentWeek(today.AddDate(0, 0, 7), semesterStart, events)
}

// SemesterActive reports whether lectures are running on the given date.
func SemesterActive(today, semesterStart time.Time, events []domain.AcademicEvent) bool {
	week := CurrentWeek(today, semesterStart, events)
	return week.IsWeek() && week.Number >= 1 && week.Number <= lectureWeeks
}

func covers(event *domain.AcademicEvent, day time.Time) bool {
	start, ok := ParseDate(event.StartDate)
	if !ok {
		return false
	}
	end, ok := ParseDate(event.EndDate)
	if !ok {
		end = start
	}
	return !day.Before(start) && !day.After(end)
}
