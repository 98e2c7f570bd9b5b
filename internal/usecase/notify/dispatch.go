package notify

import (
	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
)

// Outcome tallies one broadcast across all registered chats.
type Outcome struct {
	Delivered int
	Muted     int
	Failed    int
}

// ShouldAdvance reports whether reminder progress may be persisted after the
// broadcast. A muted chat counts as reached, suppression and state are
// decoupled so mute expiry never triggers a reminder storm. Only a broadcast
// where every attempt failed blocks advancement, the reminder then retries
// on the next scan.
func (o Outcome) ShouldAdvance() bool {
	return o.Failed == 0 || o.Delivered+o.Muted > 0
}

// Dispatcher fans scheduler messages out to every registered chat.
type Dispatcher struct {
	users    domain.UserRepo
	notifier domain.Notifier
	clock    domain.Clock
	log      zerolog.Logger
}

// NewDispatcher creates the dispatcher.
func NewDispatcher(users domain.UserRepo, notifier domain.Notifier, clock domain.Clock, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{users: users, notifier: notifier, clock: clock, log: log}
}

// Broadcast sends text to every registered chat. One failing chat never
// stops the rest of the batch.
func (d *Dispatcher) Broadcast(kind domain.NotificationKind, text string) Outcome {
	return d.BroadcastFiltered(kind, text, "")
}

// BroadcastFiltered sends text to the chats that have the given notification
// setting enabled. An empty settingKey addresses everyone.
func (d *Dispatcher) BroadcastFiltered(kind domain.NotificationKind, text, settingKey string) Outcome {
	chatIDs, err := d.users.AllChatIDs()
	if err != nil {
		d.log.Error().Err(err).Str("kind", string(kind)).Msg("notify: cannot list chats")
		return Outcome{Failed: 1}
	}

	var outcome Outcome
	now := d.clock.Now()
	for _, chatID := range chatIDs {
		if settingKey != "" {
			enabled, err := d.users.NotificationSetting(chatID, settingKey)
			if err != nil {
				d.log.Warn().Err(err).Int64("chat_id", chatID).Msg("notify: cannot read notification setting")
				continue
			}
			if !enabled {
				continue
			}
		}

		muted, err := d.users.IsMuted(chatID, now)
		if err != nil {
			d.log.Warn().Err(err).Int64("chat_id", chatID).Msg("notify: cannot read mute state")
		}
		if muted {
			d.log.Info().Int64("chat_id", chatID).Str("kind", string(kind)).Msg("notify: chat muted, delivery skipped")
			outcome.Muted++
			metrics.IncNotificationMuted()
			continue
		}

		if err := d.notifier.Send(kind, chatID, text); err != nil {
			d.log.Error().Err(err).Int64("chat_id", chatID).Str("kind", string(kind)).Msg("notify: send failed")
			outcome.Failed++
			metrics.IncNotificationFailed()
			continue
		}
		outcome.Delivered++
		metrics.IncNotificationDelivered()
	}
	return outcome
}
