package semester

import (
	"testing"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func semesterEvents() []domain.AcademicEvent {
	return []domain.AcademicEvent{
		{
			EventType:      domain.EventBreak,
			Name:           "Cuti Pertengahan Semester",
			NameEn:         "Mid Semester Break",
			StartDate:      "2025-11-15",
			EndDate:        "2025-11-23",
			AffectsClasses: true,
		},
		{
			EventType:      domain.EventBreak,
			Name:           "Cuti Antara Semester",
			NameEn:         "Inter-semester Break",
			StartDate:      "2026-01-24",
			EndDate:        "2026-03-08",
			AffectsClasses: true,
		},
	}
}

func TestCurrentWeek(t *testing.T) {
	start := date(2025, time.October, 6)
	events := semesterEvents()

	cases := []struct {
		name  string
		today time.Time
		want  WeekResult
	}{
		{"first day is week one", date(2025, time.October, 6), weekNumber(1)},
		{"second week", date(2025, time.October, 13), weekNumber(2)},
		{"last day before break", date(2025, time.November, 14), weekNumber(6)},
		{"inside mid break", date(2025, time.November, 17), weekLabel("Mid Semester Break")},
		{"first break day", date(2025, time.November, 15), weekLabel("Mid Semester Break")},
		{"last break day", date(2025, time.November, 23), weekLabel("Mid Semester Break")},
		{"break week is not counted", date(2025, time.November, 24), weekNumber(7)},
		{"final lecture week", date(2026, time.January, 16), weekNumber(14)},
		{"inside inter break", date(2026, time.February, 10), weekLabel("Inter-semester Break")},
		{"before semester", date(2025, time.September, 30), weekLabel(LabelBeforeSemester)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentWeek(tc.today, start, events)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCurrentWeekPastFourteenWithoutInterBreak(t *testing.T) {
	start := date(2025, time.October, 6)
	events := semesterEvents()[:1]

	// Calendar week 16, lecture week 15 after discounting the mid break.
	got := CurrentWeek(date(2026, time.January, 19), start, events)
	if got != weekLabel(LabelSemesterEnded) {
		t.Fatalf("expected %q, got %v", LabelSemesterEnded, got)
	}
}

func TestCurrentWeekPastFourteenNamesInterBreak(t *testing.T) {
	start := date(2025, time.October, 6)

	// Inter break exists but has not begun yet when week 15 is reached.
	events := semesterEvents()
	events[1].StartDate = "2026-03-01"
	events[1].EndDate = "2026-04-12"

	got := CurrentWeek(date(2026, time.January, 26), start, events)
	if got != weekLabel("Inter-semester Break") {
		t.Fatalf("expected inter break label, got %v", got)
	}
}

func TestCurrentWeekFloorsAtOne(t *testing.T) {
	start := date(2025, time.October, 6)
	events := []domain.AcademicEvent{
		{
			EventType: domain.EventBreak,
			Name:      "Cuti Pertengahan Semester",
			StartDate: "2025-09-22",
			EndDate:   "2025-09-28",
		},
	}

	got := CurrentWeek(date(2025, time.October, 8), start, events)
	if got != weekNumber(1) {
		t.Fatalf("expected week 1, got %v", got)
	}
}

func TestCurrentWeekNeverExceedsFourteen(t *testing.T) {
	start := date(2025, time.October, 6)
	events := semesterEvents()

	for offset := 0; offset <= 200; offset++ {
		got := CurrentWeek(start.AddDate(0, 0, offset), start, events)
		if got.IsWeek() && got.Number > 14 {
			t.Fatalf("day %d: lecture week %d out of range", offset, got.Number)
		}
	}
}

func TestNextWeekCrossesIntoBreak(t *testing.T) {
	start := date(2025, time.October, 6)
	events := semesterEvents()

	got := NextWeek(date(2025, time.November, 10), start, events)
	if got != weekLabel("Mid Semester Break") {
		t.Fatalf("expected break label, got %v", got)
	}
}

func TestSemesterActive(t *testing.T) {
	start := date(2025, time.October, 6)
	events := semesterEvents()

	if !SemesterActive(date(2025, time.October, 20), start, events) {
		t.Fatalf("expected lectures to be active")
	}
	if SemesterActive(date(2025, time.November, 17), start, events) {
		t.Fatalf("expected break to be inactive")
	}
	if SemesterActive(date(2025, time.September, 1), start, events) {
		t.Fatalf("expected pre-semester to be inactive")
	}
}

func TestWeekResultString(t *testing.T) {
	if got := weekNumber(5).String(); got != "Week 5" {
		t.Fatalf("expected Week 5, got %s", got)
	}
	if got := weekLabel("Semester ended").String(); got != "Semester ended" {
		t.Fatalf("expected label passthrough, got %s", got)
	}
}
