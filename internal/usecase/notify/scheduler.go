package notify

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
	"github.com/devHanif-git/productivityHelper/internal/usecase/reminder"
)

var (
	// ErrSchedulerRunning is returned by Start on a scheduler that already runs.
	ErrSchedulerRunning = errors.New("scheduler already running")
	// ErrSchedulerStopped is returned by Start after Stop. A stopped scheduler
	// is not restartable, create a fresh instance instead.
	ErrSchedulerStopped = errors.New("scheduler already stopped")
)

// defaultScanInterval is how often the reminder scans run.
const defaultScanInterval = 30 * time.Minute

// dailyGuardTTL reclaims daily dedup keys. The key carries the local date,
// the TTL only cleans up.
const dailyGuardTTL = 25 * time.Hour

const (
	schedulerIdle = iota
	schedulerRunning
	schedulerStopped
)

// cronSpec fires a job once per day at a fixed local time.
type cronSpec struct {
	name   string
	hour   int
	minute int
	run    func()
}

// Scheduler owns the timed notification jobs. Job bodies run on their own
// goroutines so a slow send never delays the other timers.
type Scheduler struct {
	calendar domain.CalendarRepo
	todos    domain.TodoRepo
	dispatch *Dispatcher
	scanners []reminder.ProgressScanner
	guard    domain.OnceGuard
	clock    domain.Clock
	log      zerolog.Logger

	scanEvery time.Duration

	mu    sync.Mutex
	state int
	stop  chan struct{}
	loops sync.WaitGroup
}

// NewScheduler creates a scheduler with its dependencies injected. The guard
// deduplicates daily jobs across restarts and may be nil.
func NewScheduler(
	calendar domain.CalendarRepo,
	todos domain.TodoRepo,
	dispatch *Dispatcher,
	scanners []reminder.ProgressScanner,
	guard domain.OnceGuard,
	clock domain.Clock,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		calendar:  calendar,
		todos:     todos,
		dispatch:  dispatch,
		scanners:  scanners,
		guard:     guard,
		clock:     clock,
		log:       log,
		scanEvery: defaultScanInterval,
	}
}

// SetScanInterval overrides the reminder scan cadence. Call before Start.
func (s *Scheduler) SetScanInterval(d time.Duration) {
	if d > 0 {
		s.scanEvery = d
	}
}

func (s *Scheduler) cronJobs() []cronSpec {
	return []cronSpec{
		{name: "class_briefing", hour: 22, minute: 0, run: s.SendClassBriefing},
		{name: "offday_alert", hour: 20, minute: 0, run: s.SendOffdayAlert},
		{name: "midnight_todo", hour: 0, minute: 0, run: s.SendMidnightTodoReview},
		{name: "semester_starting", hour: 20, minute: 30, run: s.CheckSemesterStarting},
	}
}

// Start launches the timer loops.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case schedulerRunning:
		return ErrSchedulerRunning
	case schedulerStopped:
		return ErrSchedulerStopped
	}
	s.state = schedulerRunning
	s.stop = make(chan struct{})

	s.loops.Add(1)
	go s.cronLoop()
	for _, scanner := range s.scanners {
		s.loops.Add(1)
		go s.scanLoop(scanner)
	}

	s.log.Info().Int("scanners", len(s.scanners)).Msg("scheduler: started")
	return nil
}

// Stop halts new timer fires and waits for the loops to exit. In-flight job
// bodies are left to finish on their own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != schedulerRunning {
		s.mu.Unlock()
		return
	}
	s.state = schedulerStopped
	close(s.stop)
	s.mu.Unlock()

	s.loops.Wait()
	s.log.Info().Msg("scheduler: stopped")
}

func (s *Scheduler) cronLoop() {
	defer s.loops.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick(s.clock.Now())
		}
	}
}

// tick fires the cron jobs whose local time matches the current minute.
func (s *Scheduler) tick(now time.Time) {
	for _, job := range s.cronJobs() {
		if now.Hour() == job.hour && now.Minute() == job.minute {
			s.launchDaily(job.name, now, job.run)
		}
	}
}

func (s *Scheduler) scanLoop(scanner reminder.ProgressScanner) {
	defer s.loops.Done()
	ticker := time.NewTicker(s.scanEvery)
	defer ticker.Stop()
	name := scanner.Kind() + "_reminders"
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.launch(name, func() { s.RunReminderScan(scanner) })
		}
	}
}

// launch runs a job body on its own goroutine. A panic is contained to the
// job that raised it.
func (s *Scheduler) launch(name string, run func()) {
	go func() {
		defer s.recoverJob(name)
		start := time.Now()
		run()
		metrics.ObserveSchedulerJob(name, start, nil)
	}()
}

// launchDaily additionally dedupes the job per local date, so a restart
// right after a cron fire does not repeat it.
func (s *Scheduler) launchDaily(name string, now time.Time, run func()) {
	go func() {
		defer s.recoverJob(name)
		start := time.Now()
		var err error
		if s.guard != nil {
			key := fmt.Sprintf("scheduler:%s:%s", name, now.Format("2006-01-02"))
			err = s.guard.Once(key, dailyGuardTTL, func() error {
				run()
				return nil
			})
			if err != nil {
				s.log.Error().Err(err).Str("job", name).Msg("scheduler: daily guard failed")
			}
		} else {
			run()
		}
		metrics.ObserveSchedulerJob(name, start, err)
	}()
}

func (s *Scheduler) recoverJob(name string) {
	if r := recover(); r != nil {
		s.log.Error().Str("job", name).Interface("panic", r).Msg("scheduler: job panicked")
	}
}

// RunReminderScan walks one scanner and broadcasts whatever became due.
// Progress is persisted only when the broadcast reached someone or nobody
// had to be reached.
func (s *Scheduler) RunReminderScan(scanner reminder.ProgressScanner) {
	kind := scanner.Kind()
	s.log.Info().Str("kind", kind).Msg("scheduler: checking reminders")

	due, err := scanner.Due(s.clock.Now())
	if err != nil {
		s.log.Error().Err(err).Str("kind", kind).Msg("scheduler: reminder scan failed")
		return
	}

	for _, item := range due {
		outcome := s.dispatch.Broadcast(domain.NotificationKind(kind), item.Message)
		if !outcome.ShouldAdvance() {
			s.log.Warn().
				Str("kind", kind).
				Int64("item_id", item.ItemID).
				Str("checkpoint", item.Checkpoint).
				Msg("scheduler: delivery failed, reminder stays pending")
			continue
		}
		if err := item.Advance(); err != nil {
			// The checkpoint fires again on the next scan, a duplicate
			// reminder is preferred over a lost one.
			s.log.Error().Err(err).
				Str("kind", kind).
				Int64("item_id", item.ItemID).
				Str("checkpoint", item.Checkpoint).
				Msg("scheduler: cannot persist reminder progress")
		}
	}
}
