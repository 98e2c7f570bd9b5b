package notify

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/usecase/reminder"
)

type schedCalendar struct {
	events []domain.AcademicEvent
	slots  []domain.ScheduleSlot
	err    error
}

func (c *schedCalendar) AllEvents() ([]domain.AcademicEvent, error) { return c.events, c.err }

func (c *schedCalendar) AllScheduleSlots() ([]domain.ScheduleSlot, error) { return c.slots, nil }

func (c *schedCalendar) ScheduleForDay(weekday int) ([]domain.ScheduleSlot, error) {
	var out []domain.ScheduleSlot
	for _, slot := range c.slots {
		if slot.DayOfWeek == weekday {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (c *schedCalendar) ReplaceEvents(events []domain.AcademicEvent) error {
	c.events = events
	return nil
}

type schedTodos struct {
	todos []domain.Todo
	err   error
}

func (r *schedTodos) PendingTodos() ([]domain.Todo, error) { return r.todos, r.err }

func (r *schedTodos) TodosWithoutTime() ([]domain.Todo, error) { return r.todos, r.err }

func (r *schedTodos) SetTodoReminded(id int64) error { return nil }

type stubGuard struct {
	mu   sync.Mutex
	seen map[string]bool
	keys []string
}

func (g *stubGuard) Once(key string, ttl time.Duration, fn func() error) error {
	g.mu.Lock()
	if g.seen == nil {
		g.seen = make(map[string]bool)
	}
	ran := g.seen[key]
	g.seen[key] = true
	g.keys = append(g.keys, key)
	g.mu.Unlock()
	if ran {
		return nil
	}
	return fn()
}

type stubScanner struct {
	kind string
	due  []reminder.Reminder
	err  error
}

func (s *stubScanner) Kind() string { return s.kind }

func (s *stubScanner) Due(now time.Time) ([]reminder.Reminder, error) { return s.due, s.err }

func newTestScheduler(calendar *schedCalendar, todos *schedTodos, users *dispatchUsers, notifier *recordNotifier, scanners []reminder.ProgressScanner, guard domain.OnceGuard, clock fixedClock) *Scheduler {
	dispatch := NewDispatcher(users, notifier, clock, zerolog.Nop())
	return NewScheduler(calendar, todos, dispatch, scanners, guard, clock, zerolog.Nop())
}

func waitSignal(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a delivery")
	}
}

func TestSendClassBriefingSendsTomorrowSchedule(t *testing.T) {
	// Monday evening, tomorrow is a plain Tuesday with one class.
	clock := fixedClock{now: time.Date(2025, time.October, 20, 22, 0, 0, 0, time.UTC)}
	calendar := &schedCalendar{slots: []domain.ScheduleSlot{
		{DayOfWeek: 1, SubjectCode: "BITP 3453", StartTime: "08:00", EndTime: "10:00", ClassType: "Lab"},
	}}
	users := &dispatchUsers{chatIDs: []int64{101, 202}}
	notifier := &recordNotifier{}

	s := newTestScheduler(calendar, &schedTodos{}, users, notifier, nil, nil, clock)
	s.SendClassBriefing()

	if notifier.count() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", notifier.count())
	}
	msg := notifier.messages()[0].text
	mustContain(t, msg, "📚 Classes Tomorrow (Tuesday, 21 Oct):")
	mustContain(t, msg, "• BITP 3453 8AM-10AM (Lab)")
}

func TestSendClassBriefingSkipsOffDay(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 22, 0, 0, 0, time.UTC)}
	calendar := &schedCalendar{
		events: []domain.AcademicEvent{
			{EventType: domain.EventHoliday, NameEn: "Deepavali", StartDate: "2025-10-21", AffectsClasses: true},
		},
		slots: []domain.ScheduleSlot{{DayOfWeek: 1, SubjectCode: "BITP 3453", StartTime: "08:00"}},
	}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	s := newTestScheduler(calendar, &schedTodos{}, users, notifier, nil, nil, clock)
	s.SendClassBriefing()

	if notifier.count() != 0 {
		t.Fatalf("briefing must stay silent before an off day, got %d sends", notifier.count())
	}
}

func TestSendClassBriefingSkipsWeekend(t *testing.T) {
	// Friday evening, tomorrow is Saturday.
	clock := fixedClock{now: time.Date(2025, time.October, 24, 22, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.SendClassBriefing()

	if notifier.count() != 0 {
		t.Fatalf("briefing must stay silent before a weekend, got %d sends", notifier.count())
	}
}

func TestSendOffdayAlertAnnouncesHoliday(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 20, 0, 0, 0, time.UTC)}
	calendar := &schedCalendar{
		events: []domain.AcademicEvent{
			{EventType: domain.EventHoliday, NameEn: "Deepavali", StartDate: "2025-10-21", AffectsClasses: true},
		},
		slots: []domain.ScheduleSlot{{DayOfWeek: 1, SubjectCode: "BITP 3453", StartTime: "08:00"}},
	}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	s := newTestScheduler(calendar, &schedTodos{}, users, notifier, nil, nil, clock)
	s.SendOffdayAlert()

	if notifier.count() != 1 {
		t.Fatalf("expected 1 delivery, got %d", notifier.count())
	}
	msg := notifier.messages()[0].text
	mustContain(t, msg, "🎉 No Classes Tomorrow!")
	mustContain(t, msg, "📅 Deepavali")
	mustContain(t, msg, "• BITP 3453 at 8AM")
}

func TestSendOffdayAlertQuietOnClassDay(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 20, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.SendOffdayAlert()

	if notifier.count() != 0 {
		t.Fatalf("no alert expected before a class day, got %d sends", notifier.count())
	}
}

func TestSendMidnightTodoReviewFiltersChats(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC)}
	todos := &schedTodos{todos: []domain.Todo{{Title: "Buy lab coat"}}}
	users := &dispatchUsers{chatIDs: []int64{101, 202}, disabled: map[int64]bool{202: true}}
	notifier := &recordNotifier{}

	s := newTestScheduler(&schedCalendar{}, todos, users, notifier, nil, nil, clock)
	s.SendMidnightTodoReview()

	msgs := notifier.messages()
	if len(msgs) != 1 || msgs[0].chatID != 101 {
		t.Fatalf("expected delivery to chat 101 only, got %+v", msgs)
	}
	mustContain(t, msgs[0].text, "📝 Midnight TODO Review")
	mustContain(t, msgs[0].text, "1. Buy lab coat")
}

func TestSendMidnightTodoReviewQuietWhenNothingPending(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.SendMidnightTodoReview()

	if notifier.count() != 0 {
		t.Fatalf("no review expected without pending todos, got %d sends", notifier.count())
	}
}

func TestCheckSemesterStarting(t *testing.T) {
	calendar := &schedCalendar{events: []domain.AcademicEvent{
		{EventType: domain.EventBreak, NameEn: "Mid Semester Break", StartDate: "2025-11-15", EndDate: "2025-11-23"},
		{EventType: domain.EventBreak, NameEn: "Inter-semester Break", StartDate: "2026-01-24", EndDate: "2026-03-08"},
	}}

	cases := []struct {
		name     string
		today    time.Time
		wantSend bool
	}{
		{"eight days before the break ends", time.Date(2026, time.February, 28, 20, 30, 0, 0, time.UTC), false},
		{"exactly one week before", time.Date(2026, time.March, 1, 20, 30, 0, 0, time.UTC), true},
		{"six days before", time.Date(2026, time.March, 2, 20, 30, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &dispatchUsers{chatIDs: []int64{101}}
			notifier := &recordNotifier{}
			s := newTestScheduler(calendar, &schedTodos{}, users, notifier, nil, nil, fixedClock{now: tc.today})

			s.CheckSemesterStarting()

			if tc.wantSend && notifier.count() != 1 {
				t.Fatalf("expected the announcement, got %d sends", notifier.count())
			}
			if !tc.wantSend && notifier.count() != 0 {
				t.Fatalf("expected silence, got %d sends", notifier.count())
			}
			if tc.wantSend {
				mustContain(t, notifier.messages()[0].text, "New semester starts: Monday, 09 Mar 2026")
			}
		})
	}
}

func TestCheckSemesterStartingWithoutInterBreak(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, time.March, 1, 20, 30, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.CheckSemesterStarting()

	if notifier.count() != 0 {
		t.Fatalf("expected silence without an inter-semester break, got %d sends", notifier.count())
	}
}

func TestRunReminderScanAdvancesOnDelivery(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 22, 17, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}

	advanced := false
	scanner := &stubScanner{kind: "assignment", due: []reminder.Reminder{{
		ItemID:     7,
		Checkpoint: "level1",
		Message:    "⏰ Assignment 'Compiler project' due in 3 days",
		Advance:    func() error { advanced = true; return nil },
	}}}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.RunReminderScan(scanner)

	if notifier.count() != 1 {
		t.Fatalf("expected 1 delivery, got %d", notifier.count())
	}
	if !advanced {
		t.Fatalf("progress must be persisted after a delivered reminder")
	}
}

func TestRunReminderScanHoldsProgressWhenNobodyReached(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 22, 17, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101, 202}}
	notifier := &recordNotifier{failFor: map[int64]bool{101: true, 202: true}}

	advanced := false
	scanner := &stubScanner{kind: "task", due: []reminder.Reminder{{
		ItemID:     3,
		Checkpoint: "1day",
		Message:    "📋 Task Tomorrow",
		Advance:    func() error { advanced = true; return nil },
	}}}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.RunReminderScan(scanner)

	if advanced {
		t.Fatalf("progress must stay pending when every send failed")
	}
}

func TestRunReminderScanAdvancesWhenAllMuted(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 22, 17, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}, muted: map[int64]bool{101: true}}
	notifier := &recordNotifier{}

	advanced := false
	scanner := &stubScanner{kind: "todo", due: []reminder.Reminder{{
		ItemID:     5,
		Checkpoint: "1hour",
		Message:    "⏰ TODO Reminder",
		Advance:    func() error { advanced = true; return nil },
	}}}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.RunReminderScan(scanner)

	if notifier.count() != 0 {
		t.Fatalf("muted chat must not receive anything, got %d sends", notifier.count())
	}
	if !advanced {
		t.Fatalf("a mute counts as reached, progress must advance")
	}
}

func TestRunReminderScanSkipsOnScanError(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 22, 17, 0, 0, 0, time.UTC)}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{}
	scanner := &stubScanner{kind: "assignment", err: errors.New("db down")}

	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, users, notifier, nil, nil, clock)
	s.RunReminderScan(scanner)

	if notifier.count() != 0 {
		t.Fatalf("nothing must be sent when the scan fails, got %d sends", notifier.count())
	}
}

func TestTickLaunchesCronAtExactMinute(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 22, 0, 0, 0, time.UTC)}
	calendar := &schedCalendar{slots: []domain.ScheduleSlot{
		{DayOfWeek: 1, SubjectCode: "BITP 3453", StartTime: "08:00", EndTime: "10:00", ClassType: "Lab"},
	}}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{signal: make(chan struct{}, 8)}

	s := newTestScheduler(calendar, &schedTodos{}, users, notifier, nil, nil, clock)

	s.tick(time.Date(2025, time.October, 20, 22, 0, 30, 0, time.UTC))
	waitSignal(t, notifier.signal)
	if notifier.count() != 1 {
		t.Fatalf("expected 1 delivery, got %d", notifier.count())
	}

	// A minute without a matching job launches nothing.
	s.tick(time.Date(2025, time.October, 20, 22, 7, 0, 0, time.UTC))
	time.Sleep(50 * time.Millisecond)
	if notifier.count() != 1 {
		t.Fatalf("unexpected launch on a non-matching minute, got %d sends", notifier.count())
	}
}

func TestDailyJobsDedupedByGuard(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 22, 0, 0, 0, time.UTC)}
	calendar := &schedCalendar{slots: []domain.ScheduleSlot{
		{DayOfWeek: 1, SubjectCode: "BITP 3453", StartTime: "08:00", EndTime: "10:00", ClassType: "Lab"},
	}}
	users := &dispatchUsers{chatIDs: []int64{101}}
	notifier := &recordNotifier{signal: make(chan struct{}, 8)}
	guard := &stubGuard{}

	s := newTestScheduler(calendar, &schedTodos{}, users, notifier, nil, guard, clock)

	// Two fires within one minute, as after a restart right past the cron tick.
	at := time.Date(2025, time.October, 20, 22, 0, 10, 0, time.UTC)
	s.tick(at)
	waitSignal(t, notifier.signal)
	s.tick(at.Add(20 * time.Second))
	time.Sleep(50 * time.Millisecond)

	if notifier.count() != 1 {
		t.Fatalf("guard must keep the daily job from repeating, got %d sends", notifier.count())
	}
	guard.mu.Lock()
	defer guard.mu.Unlock()
	wantKey := "scheduler:class_briefing:2025-10-20"
	if len(guard.keys) == 0 || guard.keys[0] != wantKey {
		t.Fatalf("expected guard key %q, got %v", wantKey, guard.keys)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC)}
	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, &dispatchUsers{}, &recordNotifier{}, nil, nil, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrSchedulerRunning) {
		t.Fatalf("expected ErrSchedulerRunning, got %v", err)
	}
	s.Stop()
	if err := s.Start(); !errors.Is(err, ErrSchedulerStopped) {
		t.Fatalf("expected ErrSchedulerStopped, got %v", err)
	}
	s.Stop()
}

func TestLaunchContainsPanic(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC)}
	s := newTestScheduler(&schedCalendar{}, &schedTodos{}, &dispatchUsers{}, &recordNotifier{}, nil, nil, clock)

	done := make(chan struct{})
	s.launch("explode", func() {
		defer close(done)
		panic(fmt.Sprintf("boom at %s", clock.Now()))
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("panicking job never ran")
	}
	// Let the recover handler finish; the test binary surviving is the assertion.
	time.Sleep(20 * time.Millisecond)
}
