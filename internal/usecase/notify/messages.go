package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/usecase/semester"
)

// ClassBriefingMessage builds the nightly briefing with tomorrow's classes.
func ClassBriefingMessage(tomorrow time.Time, slots []domain.ScheduleSlot, lang domain.Language) string {
	dayName := lang.DayName(semester.WeekdayIndex(tomorrow))
	shortDate := tomorrow.Format("02 Jan")

	if len(slots) == 0 {
		return fmt.Sprintf("📚 Tomorrow (%s, %s)\n\nNo classes on your timetable!\nEnjoy your free day 🎉", dayName, shortDate)
	}

	ordered := append([]domain.ScheduleSlot(nil), slots...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StartTime < ordered[j].StartTime })

	lines := []string{fmt.Sprintf("📚 Classes Tomorrow (%s, %s):\n", dayName, shortDate)}
	for _, slot := range ordered {
		line := fmt.Sprintf("• %s %s-%s (%s)", slot.SubjectCode, semester.FormatClock(slot.StartTime), semester.FormatClock(slot.EndTime), slot.ClassType)
		if slot.Room != "" {
			line += fmt.Sprintf("\n  📍 %s", slot.Room)
		}
		if slot.LecturerName != "" {
			line += fmt.Sprintf("\n  👨‍🏫 %s", slot.LecturerName)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// OffdayAlertMessage builds the evening alert for an off day tomorrow.
func OffdayAlertMessage(tomorrow time.Time, event domain.AcademicEvent, affected []domain.ScheduleSlot, lang domain.Language) string {
	name := event.NameEn
	if name == "" {
		name = event.Name
	}
	if name == "" {
		name = "Holiday"
	}

	lines := []string{
		"🎉 No Classes Tomorrow!",
		"",
		fmt.Sprintf("Tomorrow (%s, %s) is:", lang.DayName(semester.WeekdayIndex(tomorrow)), tomorrow.Format("02 Jan")),
		fmt.Sprintf("📅 %s", name),
	}
	if len(affected) > 0 {
		lines = append(lines, "", "Classes cancelled:")
		for _, slot := range affected {
			lines = append(lines, fmt.Sprintf("• %s at %s", slot.SubjectCode, semester.FormatClock(slot.StartTime)))
		}
	}
	return strings.Join(lines, "\n")
}

// TodoReviewMessage lists the pending todos that carry no time of day.
func TodoReviewMessage(todos []domain.Todo) string {
	lines := []string{
		"📝 Midnight TODO Review",
		"",
		fmt.Sprintf("You have %d pending TODO(s):", len(todos)),
		"",
	}
	for i, todo := range todos {
		line := fmt.Sprintf("%d. %s", i+1, todo.Title)
		if todo.ScheduledDate != "" {
			line += fmt.Sprintf(" (scheduled: %s)", todo.ScheduledDate)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// SemesterStartingMessage announces that the new semester starts in one week.
func SemesterStartingMessage(semesterStart time.Time, lang domain.Language) string {
	return fmt.Sprintf(
		"📚 Heads Up!\n\nThe inter-semester break ends in 1 week!\n\nNew semester starts: %s, %s\nThat will be Week 1 of the new semester.\n\nTime to prepare for classes!",
		lang.DayName(semester.WeekdayIndex(semesterStart)),
		semesterStart.Format("02 Jan 2006"),
	)
}
