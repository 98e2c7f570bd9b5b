package semester

import (
	"strings"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// ClassifyBreak labels a break event as mid-semester or inter-semester by
// keyword matching on its names. Unmatched events are treated as the
// inter-semester break, which follows the mid-semester one in the calendar.
func ClassifyBreak(event domain.AcademicEvent) domain.BreakKind {
	name := strings.ToLower(event.Name)
	nameEn := strings.ToLower(event.NameEn)

	if strings.Contains(name, "pertengahan") || strings.Contains(nameEn, "mid") {
		return domain.BreakMidSemester
	}
	if strings.Contains(name, "antara") || strings.Contains(nameEn, "inter") || strings.Contains(nameEn, "semester break") {
		return domain.BreakInterSemester
	}
	return domain.BreakInterSemester
}

// AllBreaks picks the mid-semester and inter-semester break events. The first
// event of each kind wins, later duplicates are ignored.
func AllBreaks(events []domain.AcademicEvent) (mid, inter *domain.AcademicEvent) {
	for i := range events {
		if events[i].EventType != domain.EventBreak {
			continue
		}
		switch ClassifyBreak(events[i]) {
		case domain.BreakMidSemester:
			if mid == nil {
				mid = &events[i]
			}
		case domain.BreakInterSemester:
			if inter == nil {
				inter = &events[i]
			}
		}
	}
	return mid, inter
}

// CurrentBreak returns the break event covering today, if any. An event
// without an end date covers its start date only.
func CurrentBreak(today time.Time, events []domain.AcademicEvent) *domain.AcademicEvent {
	day := DateOnly(today)
	for i := range events {
		if events[i].EventType != domain.EventBreak {
			continue
		}
		start, ok := ParseDate(events[i].StartDate)
		if !ok {
			continue
		}
		end, ok := ParseDate(events[i].EndDate)
		if !ok {
			end = start
		}
		if !day.Before(start) && !day.After(end) {
			return &events[i]
		}
	}
	return nil
}
