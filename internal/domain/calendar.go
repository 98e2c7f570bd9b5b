package domain

// EventType labels one academic calendar entry.
type EventType string

const (
	EventHoliday       EventType = "holiday"
	EventBreak         EventType = "break"
	EventExam          EventType = "exam"
	EventLecturePeriod EventType = "lecture_period"
	EventRegistration  EventType = "registration"
	EventPDPOnline     EventType = "pdp_online"
)

// AcademicEvent is one entry of the academic calendar.
// Dates are ISO strings as imported; an empty EndDate means a single-day event.
type AcademicEvent struct {
	ID             int64
	EventType      EventType
	Name           string
	NameEn         string
	StartDate      string
	EndDate        string
	AffectsClasses bool
}

// BreakKind places a break event within the semester structure.
type BreakKind string

const (
	BreakMidSemester   BreakKind = "mid_semester"
	BreakInterSemester BreakKind = "inter_semester"
)

// ScheduleSlot is one weekly recurring class occurrence. DayOfWeek is 0=Monday.
type ScheduleSlot struct {
	ID           int64
	DayOfWeek    int
	StartTime    string
	EndTime      string
	SubjectCode  string
	SubjectName  string
	ClassType    string
	Room         string
	LecturerName string
}
