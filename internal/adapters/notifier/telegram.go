package notifier

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
)

// Telegram sends notifications straight through the Bot API.
type Telegram struct {
	bot *tgbotapi.BotAPI
	log zerolog.Logger
}

var _ domain.Notifier = (*Telegram)(nil)

// NewTelegram creates the direct notifier.
func NewTelegram(bot *tgbotapi.BotAPI, log zerolog.Logger) *Telegram {
	return &Telegram{bot: bot, log: log}
}

// Send delivers the text to one chat, chunked to the Bot API message limit.
func (n *Telegram) Send(kind domain.NotificationKind, chatID int64, text string) error {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		start := time.Now()
		_, err := n.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			n.log.Error().Err(err).
				Int64("chat_id", chatID).
				Str("kind", string(kind)).
				Msg("notifier: telegram send failed")
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}
