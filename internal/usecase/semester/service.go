package semester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// ErrMalformedDate is returned when a stored date string does not parse.
var ErrMalformedDate = errors.New("malformed stored date")

// Service answers calendar questions for one user.
type Service struct {
	calendar domain.CalendarRepo
	users    domain.UserRepo
	clock    domain.Clock
}

// NewService creates the service.
func NewService(calendar domain.CalendarRepo, users domain.UserRepo, clock domain.Clock) *Service {
	return &Service{calendar: calendar, users: users, clock: clock}
}

// Weeks returns the current and next week results for the user's semester.
func (s *Service) Weeks(ctx context.Context, chatID int64) (current, next WeekResult, err error) {
	return s.WeeksOn(ctx, chatID, s.clock.Today())
}

// WeeksOn answers the week question for an arbitrary date, the API uses it
// for date overrides.
func (s *Service) WeeksOn(ctx context.Context, chatID int64, today time.Time) (current, next WeekResult, err error) {
	cfg, err := s.users.GetByChatID(chatID)
	if err != nil {
		return WeekResult{}, WeekResult{}, fmt.Errorf("load user config: %w", err)
	}
	if cfg.SemesterStartDate == "" {
		return WeekResult{}, WeekResult{}, domain.ErrSemesterStartUnset
	}
	start, ok := ParseDate(cfg.SemesterStartDate)
	if !ok {
		return WeekResult{}, WeekResult{}, fmt.Errorf("semester start %q: %w", cfg.SemesterStartDate, ErrMalformedDate)
	}
	events, err := s.calendar.AllEvents()
	if err != nil {
		return WeekResult{}, WeekResult{}, fmt.Errorf("load events: %w", err)
	}
	return CurrentWeek(today, start, events), NextWeek(today, start, events), nil
}

// UpcomingOffDay finds the next off day within the default horizon.
func (s *Service) UpcomingOffDay(ctx context.Context) (OffDay, bool, error) {
	return s.UpcomingOffDayFrom(ctx, s.clock.Today(), DefaultOffDayHorizon)
}

// UpcomingOffDayFrom finds the next off day after the given date.
func (s *Service) UpcomingOffDayFrom(ctx context.Context, today time.Time, horizonDays int) (OffDay, bool, error) {
	events, err := s.calendar.AllEvents()
	if err != nil {
		return OffDay{}, false, fmt.Errorf("load events: %w", err)
	}
	offDay, found := NextOffDay(today, events, horizonDays)
	return offDay, found, nil
}

// TomorrowOutlook reports whether tomorrow has classes and which events and
// slots apply, for briefing previews.
func (s *Service) TomorrowOutlook(ctx context.Context) (classDay bool, event *domain.AcademicEvent, slots []domain.ScheduleSlot, err error) {
	return s.OutlookFor(ctx, DateOnly(s.clock.Today()).AddDate(0, 0, 1))
}

// OutlookFor reports the class-day picture for one specific date.
func (s *Service) OutlookFor(ctx context.Context, day time.Time) (classDay bool, event *domain.AcademicEvent, slots []domain.ScheduleSlot, err error) {
	events, err := s.calendar.AllEvents()
	if err != nil {
		return false, nil, nil, fmt.Errorf("load events: %w", err)
	}
	slots, err = s.calendar.ScheduleForDay(WeekdayIndex(day))
	if err != nil {
		return false, nil, nil, fmt.Errorf("load schedule: %w", err)
	}
	return IsClassDay(day, events), EventOnDate(day, events), slots, nil
}
