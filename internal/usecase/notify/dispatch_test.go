package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

type sentMessage struct {
	kind   domain.NotificationKind
	chatID int64
	text   string
}

type recordNotifier struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]bool
	signal  chan struct{}
}

func (n *recordNotifier) Send(kind domain.NotificationKind, chatID int64, text string) error {
	if n.failFor[chatID] {
		return errors.New("telegram unavailable")
	}
	n.mu.Lock()
	n.sent = append(n.sent, sentMessage{kind: kind, chatID: chatID, text: text})
	n.mu.Unlock()
	if n.signal != nil {
		select {
		case n.signal <- struct{}{}:
		default:
		}
	}
	return nil
}

func (n *recordNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type dispatchUsers struct {
	chatIDs  []int64
	listErr  error
	muted    map[int64]bool
	mutedErr error
	disabled map[int64]bool
}

func (u *dispatchUsers) AllChatIDs() ([]int64, error) { return u.chatIDs, u.listErr }

func (u *dispatchUsers) GetByChatID(chatID int64) (domain.UserConfig, error) {
	return domain.UserConfig{ChatID: chatID}, nil
}

func (u *dispatchUsers) UpsertConfig(cfg domain.UserConfig) (domain.UserConfig, error) {
	return cfg, nil
}

func (u *dispatchUsers) SetMutedUntil(chatID int64, until *time.Time) error { return nil }

func (u *dispatchUsers) IsMuted(chatID int64, now time.Time) (bool, error) {
	return u.muted[chatID], u.mutedErr
}

func (u *dispatchUsers) NotificationSetting(chatID int64, key string) (bool, error) {
	return !u.disabled[chatID], nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func (c fixedClock) Today() time.Time {
	return time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 0, 0, c.now.Location())
}

func testClock() fixedClock {
	return fixedClock{now: time.Date(2025, time.October, 20, 22, 0, 0, 0, time.UTC)}
}

func TestBroadcastDeliversToAllChats(t *testing.T) {
	users := &dispatchUsers{chatIDs: []int64{101, 202, 303}}
	notifier := &recordNotifier{}
	d := NewDispatcher(users, notifier, testClock(), zerolog.Nop())

	outcome := d.Broadcast(domain.NotificationClassBriefing, "hello")
	if outcome.Delivered != 3 || outcome.Muted != 0 || outcome.Failed != 0 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	for _, msg := range notifier.messages() {
		if msg.text != "hello" || msg.kind != domain.NotificationClassBriefing {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestBroadcastSkipsMutedChats(t *testing.T) {
	users := &dispatchUsers{chatIDs: []int64{101, 202, 303}, muted: map[int64]bool{202: true}}
	notifier := &recordNotifier{}
	d := NewDispatcher(users, notifier, testClock(), zerolog.Nop())

	outcome := d.Broadcast(domain.NotificationOffdayAlert, "quiet day")
	if outcome.Delivered != 2 || outcome.Muted != 1 || outcome.Failed != 0 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	for _, msg := range notifier.messages() {
		if msg.chatID == 202 {
			t.Fatalf("muted chat received the message")
		}
	}
}

func TestBroadcastContinuesPastSendFailure(t *testing.T) {
	users := &dispatchUsers{chatIDs: []int64{101, 202, 303}}
	notifier := &recordNotifier{failFor: map[int64]bool{101: true}}
	d := NewDispatcher(users, notifier, testClock(), zerolog.Nop())

	outcome := d.Broadcast(domain.NotificationAssignment, "due soon")
	if outcome.Delivered != 2 || outcome.Failed != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if notifier.count() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", notifier.count())
	}
}

func TestBroadcastFilteredRespectsSetting(t *testing.T) {
	users := &dispatchUsers{chatIDs: []int64{101, 202}, disabled: map[int64]bool{202: true}}
	notifier := &recordNotifier{}
	d := NewDispatcher(users, notifier, testClock(), zerolog.Nop())

	outcome := d.BroadcastFiltered(domain.NotificationTodoReview, "review", domain.SettingMidnightTodoReview)
	if outcome.Delivered != 1 || outcome.Muted != 0 || outcome.Failed != 0 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	msgs := notifier.messages()
	if len(msgs) != 1 || msgs[0].chatID != 101 {
		t.Fatalf("expected delivery to chat 101 only, got %+v", msgs)
	}
}

func TestBroadcastFailsWhenChatListUnavailable(t *testing.T) {
	users := &dispatchUsers{listErr: errors.New("db down")}
	notifier := &recordNotifier{}
	d := NewDispatcher(users, notifier, testClock(), zerolog.Nop())

	outcome := d.Broadcast(domain.NotificationTask, "ignored")
	if outcome.Failed != 1 || outcome.Delivered != 0 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.ShouldAdvance() {
		t.Fatalf("a broadcast that reached nobody must not advance progress")
	}
}

func TestBroadcastMuteCheckErrorStillDelivers(t *testing.T) {
	users := &dispatchUsers{chatIDs: []int64{101}, mutedErr: errors.New("redis down")}
	notifier := &recordNotifier{}
	d := NewDispatcher(users, notifier, testClock(), zerolog.Nop())

	outcome := d.Broadcast(domain.NotificationTodo, "still delivered")
	if outcome.Delivered != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestOutcomeShouldAdvance(t *testing.T) {
	cases := []struct {
		name    string
		outcome Outcome
		want    bool
	}{
		{"no chats registered", Outcome{}, true},
		{"all delivered", Outcome{Delivered: 3}, true},
		{"all muted", Outcome{Muted: 2}, true},
		{"partial failure", Outcome{Delivered: 2, Failed: 1}, true},
		{"muted beside failure", Outcome{Muted: 1, Failed: 2}, true},
		{"total failure", Outcome{Failed: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.outcome.ShouldAdvance(); got != tc.want {
				t.Fatalf("ShouldAdvance(%+v) = %v, want %v", tc.outcome, got, tc.want)
			}
		})
	}
}
