// Package notify forwards selected livefeed change events to Telegram. It is
// a pure consumer of MatchUpdates: nothing in livefeed knows it exists.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/premwsfeed/internal/pkg/livefeed"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// TelegramNotifier sends Telegram messages for match deletions and for score
// events that changed the set scores. Every game won changes the set scores,
// so these messages are not limited to completed sets. Odds ticks are
// deliberately not forwarded: they arrive far too often for a chat.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}

	bot.Debug = false

	// Test bot connection
	_, err = bot.GetMe()
	if err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	slog.Info("Telegram notifier initialized", "chat_id", chatID)

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}
}

// HandleUpdates filters one Process call's updates down to the ones worth a
// message (deletes and set changes) and sends them. Send errors are logged,
// never propagated: the feed must keep flowing whatever Telegram does.
func (n *TelegramNotifier) HandleUpdates(ctx context.Context, updates []livefeed.MatchUpdate) {
	if n == nil || n.bot == nil {
		return
	}
	for _, u := range updates {
		if !shouldNotify(u) {
			continue
		}
		if err := n.send(ctx, formatUpdateMessage(u)); err != nil {
			slog.Warn("premws: telegram send failed", "event_id", u.EventID, "error", err)
		}
	}
}

// shouldNotify keeps deletes and score events carrying a "sets: " change. It
// does not tell a completed set apart from a game won inside a set.
func shouldNotify(u livefeed.MatchUpdate) bool {
	if u.Type == "delete" {
		return true
	}
	if u.Type != "score" {
		return false
	}
	for _, c := range u.Changes {
		if strings.HasPrefix(c, "sets: ") {
			return true
		}
	}
	return false
}

func (n *TelegramNotifier) send(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown

	n.mu.Lock()
	if err := n.waitSendInterval(ctx); err != nil {
		n.mu.Unlock()
		return err
	}
	n.lastSend = time.Now()
	_, err := n.bot.Send(msg)
	n.mu.Unlock()
	return err
}

// waitSendInterval waits until at least telegramSendInterval has passed since lastSend. Call with n.mu held; it releases n.mu while sleeping and re-checks lastSend after reacquiring it, and returns with n.mu held.
func (n *TelegramNotifier) waitSendInterval(ctx context.Context) error {
	for {
		elapsed := time.Since(n.lastSend)
		if elapsed >= telegramSendInterval {
			return nil
		}
		wait := telegramSendInterval - elapsed
		if wait > 500*time.Millisecond {
			wait = 500 * time.Millisecond
		}
		n.mu.Unlock()
		select {
		case <-ctx.Done():
			n.mu.Lock()
			return ctx.Err()
		case <-time.After(wait):
			n.mu.Lock()
		}
	}
}

func formatUpdateMessage(u livefeed.MatchUpdate) string {
	var builder strings.Builder
	m := u.Match
	if u.Type == "delete" {
		builder.WriteString("🏁 *Match removed*\n\n")
	} else {
		builder.WriteString("🎾 *Set score changed*\n\n")
	}
	if m != nil {
		builder.WriteString(fmt.Sprintf("*%s v %s*\n", escapeMarkdown(m.Team1), escapeMarkdown(m.Team2)))
		if m.Tournament != "" {
			builder.WriteString(fmt.Sprintf("🏆 %s\n", escapeMarkdown(m.Tournament)))
		}
		if m.SportName != "" {
			builder.WriteString(fmt.Sprintf("📌 %s\n", m.SportName))
		}
	}
	builder.WriteString(fmt.Sprintf("\n%s\n", escapeMarkdown(livefeed.FormatUpdate(u))))
	return builder.String()
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
