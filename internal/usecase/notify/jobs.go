package notify

import (
	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/usecase/semester"
)

// SendClassBriefing is the 22:00 briefing with tomorrow's classes. It is
// skipped entirely when tomorrow has no classes, the off-day alert covers
// that case.
func (s *Scheduler) SendClassBriefing() {
	s.log.Info().Msg("scheduler: running class briefing")

	tomorrow := semester.DateOnly(s.clock.Today()).AddDate(0, 0, 1)
	events, err := s.calendar.AllEvents()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: cannot load events")
		return
	}
	if !semester.IsClassDay(tomorrow, events) {
		s.log.Info().Msg("scheduler: tomorrow is not a class day, skipping briefing")
		return
	}

	slots, err := s.calendar.ScheduleForDay(semester.WeekdayIndex(tomorrow))
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: cannot load schedule")
		return
	}

	message := ClassBriefingMessage(tomorrow, slots, domain.LanguageEnglish)
	s.dispatch.Broadcast(domain.NotificationClassBriefing, message)
}

// SendOffdayAlert is the 20:00 alert sent when tomorrow is an off day.
func (s *Scheduler) SendOffdayAlert() {
	s.log.Info().Msg("scheduler: running off-day check")

	tomorrow := semester.DateOnly(s.clock.Today()).AddDate(0, 0, 1)
	events, err := s.calendar.AllEvents()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: cannot load events")
		return
	}
	event := semester.EventOnDate(tomorrow, events)
	if event == nil {
		s.log.Info().Msg("scheduler: tomorrow is not an off day")
		return
	}

	affected, err := s.calendar.ScheduleForDay(semester.WeekdayIndex(tomorrow))
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: cannot load schedule")
		return
	}

	message := OffdayAlertMessage(tomorrow, *event, affected, domain.LanguageEnglish)
	s.dispatch.Broadcast(domain.NotificationOffdayAlert, message)
}

// SendMidnightTodoReview lists pending todos without a time of day. Only
// chats with the midnight review setting enabled receive it.
func (s *Scheduler) SendMidnightTodoReview() {
	s.log.Info().Msg("scheduler: running midnight todo review")

	todos, err := s.todos.TodosWithoutTime()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: cannot load todos")
		return
	}
	if len(todos) == 0 {
		s.log.Info().Msg("scheduler: no pending todos to review")
		return
	}

	message := TodoReviewMessage(todos)
	s.dispatch.BroadcastFiltered(domain.NotificationTodoReview, message, domain.SettingMidnightTodoReview)
}

// CheckSemesterStarting announces the new semester when the inter-semester
// break ends in exactly seven days. There is no persisted sent flag, the
// exact day match keeps the notice from repeating.
func (s *Scheduler) CheckSemesterStarting() {
	s.log.Info().Msg("scheduler: checking for semester start")

	events, err := s.calendar.AllEvents()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: cannot load events")
		return
	}
	_, interBreak := semester.AllBreaks(events)
	if interBreak == nil {
		s.log.Info().Msg("scheduler: no inter-semester break found")
		return
	}
	breakEnd, ok := semester.ParseDate(interBreak.EndDate)
	if !ok {
		s.log.Warn().Str("end_date", interBreak.EndDate).Msg("scheduler: inter-semester break has no usable end date")
		return
	}

	today := semester.DateOnly(s.clock.Today())
	daysUntilEnd := semester.DaysUntil(breakEnd, today)
	if daysUntilEnd != 7 {
		s.log.Info().Int("days_until_end", daysUntilEnd).Msg("scheduler: inter-semester break not ending in a week")
		return
	}

	// The new semester starts the day after the break ends.
	semesterStart := breakEnd.AddDate(0, 0, 1)
	message := SemesterStartingMessage(semesterStart, domain.LanguageEnglish)
	s.dispatch.Broadcast(domain.NotificationSemesterStarting, message)
}
