package semester

import (
	"testing"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

func TestClassifyBreak(t *testing.T) {
	cases := []struct {
		name  string
		event domain.AcademicEvent
		want  domain.BreakKind
	}{
		{"malay mid keyword", domain.AcademicEvent{Name: "Cuti Pertengahan Semester"}, domain.BreakMidSemester},
		{"english mid keyword", domain.AcademicEvent{NameEn: "Mid-semester Break"}, domain.BreakMidSemester},
		{"malay inter keyword", domain.AcademicEvent{Name: "Cuti Antara Semester"}, domain.BreakInterSemester},
		{"english inter keyword", domain.AcademicEvent{NameEn: "Inter-semester Break"}, domain.BreakInterSemester},
		{"generic semester break", domain.AcademicEvent{NameEn: "Semester Break"}, domain.BreakInterSemester},
		{"case insensitive", domain.AcademicEvent{Name: "CUTI PERTENGAHAN"}, domain.BreakMidSemester},
		{"unmatched defaults to inter", domain.AcademicEvent{Name: "Cuti Istimewa"}, domain.BreakInterSemester},
		{"empty names default to inter", domain.AcademicEvent{}, domain.BreakInterSemester},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyBreak(tc.event)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if again := ClassifyBreak(tc.event); again != got {
				t.Fatalf("classification is not stable: %s then %s", got, again)
			}
		})
	}
}

func TestAllBreaksFirstOfEachKindWins(t *testing.T) {
	events := []domain.AcademicEvent{
		{EventType: domain.EventHoliday, Name: "Hari Malaysia"},
		{EventType: domain.EventBreak, Name: "Cuti Pertengahan Semester", StartDate: "2025-11-15"},
		{EventType: domain.EventBreak, Name: "Cuti Pertengahan Kedua", StartDate: "2025-12-01"},
		{EventType: domain.EventBreak, Name: "Cuti Antara Semester", StartDate: "2026-01-24"},
	}

	mid, inter := AllBreaks(events)
	if mid == nil || mid.StartDate != "2025-11-15" {
		t.Fatalf("expected first mid break, got %+v", mid)
	}
	if inter == nil || inter.StartDate != "2026-01-24" {
		t.Fatalf("expected inter break, got %+v", inter)
	}
}

func TestAllBreaksIgnoresNonBreakEvents(t *testing.T) {
	events := []domain.AcademicEvent{
		{EventType: domain.EventExam, Name: "Peperiksaan Pertengahan"},
	}

	mid, inter := AllBreaks(events)
	if mid != nil || inter != nil {
		t.Fatalf("expected no breaks, got mid=%+v inter=%+v", mid, inter)
	}
}

func TestCurrentBreak(t *testing.T) {
	events := []domain.AcademicEvent{
		{EventType: domain.EventBreak, Name: "Cuti Pertengahan Semester", StartDate: "2025-11-15", EndDate: "2025-11-23"},
		{EventType: domain.EventBreak, Name: "Cuti Sehari", StartDate: "2025-12-25"},
	}

	if got := CurrentBreak(time.Date(2025, time.November, 17, 10, 0, 0, 0, time.UTC), events); got == nil || got.Name != "Cuti Pertengahan Semester" {
		t.Fatalf("expected mid break, got %+v", got)
	}
	// A break without an end date covers its start date only.
	if got := CurrentBreak(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), events); got == nil || got.Name != "Cuti Sehari" {
		t.Fatalf("expected single-day break, got %+v", got)
	}
	if got := CurrentBreak(time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC), events); got != nil {
		t.Fatalf("expected no break, got %+v", got)
	}
}
