// Package notify sends Telegram alerts for sharp odds drops (line
// movements) detected in assembled aggregates.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// TelegramNotifier sends Telegram notifications for detected line movements
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time

	queue  chan string
	wg     sync.WaitGroup
	closed chan struct{}
}

// NewTelegramNotifier creates a new Telegram notifier. The bot token is
// verified up front; a dead token fails construction rather than every
// send.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("get bot info: %w", err)
	}

	n := &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, 100), // Buffer up to 100 messages
		closed: make(chan struct{}),
	}

	n.wg.Add(1)
	go n.messageSender()

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return n, nil
}

// NotifyLineMovement queues an alert for one detected movement. Safe to
// call on a nil notifier (alerting disabled). Drops the alert when the
// queue is full rather than blocking the scrape loop.
func (n *TelegramNotifier) NotifyLineMovement(m LineMovement) {
	if n == nil {
		return
	}
	select {
	case n.queue <- formatLineMovement(m):
	default:
		slog.Warn("Telegram queue full, dropping line movement alert", "match_id", m.MatchID)
	}
}

// Close stops the background sender. Queued messages are dropped.
func (n *TelegramNotifier) Close() {
	if n == nil {
		return
	}
	close(n.closed)
	n.wg.Wait()
}

func (n *TelegramNotifier) messageSender() {
	defer n.wg.Done()
	for {
		select {
		case <-n.closed:
			return
		case text := <-n.queue:
			n.sendRateLimited(text)
		}
	}
}

func (n *TelegramNotifier) sendRateLimited(text string) {
	n.mu.Lock()
	wait := telegramSendInterval - time.Since(n.lastSend)
	n.mu.Unlock()
	if wait > 0 {
		select {
		case <-n.closed:
			return
		case <-time.After(wait):
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram message", "error", err)
	}

	n.mu.Lock()
	n.lastSend = time.Now()
	n.mu.Unlock()
}

func formatLineMovement(m LineMovement) string {
	return fmt.Sprintf(
		"📉 <b>Line movement</b>\n"+
			"Match: %s\n"+
			"Market: %s\n"+
			"Bookmaker: %s\n"+
			"Outcome: %s\n"+
			"Odds: %.3f → %.3f (−%.1f%%)\n"+
			"Window: %s → %s",
		m.MatchID, m.Market, m.Bookmaker, m.OutcomeType,
		m.FromOdds, m.ToOdds, m.DropPercent,
		m.From.Format("15:04:05"), m.To.Format("15:04:05"),
	)
}
