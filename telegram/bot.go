package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// Defaults for NewBot.
const (
	DefaultConcurrency = 4
	DefaultChatRPS     = 0.2
	DefaultChatBurst   = 3
	pollTimeout        = 60
)

// API is the subset of *tgbotapi.BotAPI used by Bot.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

// Bot receives updates by long polling and answers each message.
type Bot struct {
	api         API
	handler     *Handler
	limiter     *ChatLimiter
	concurrency int
	logger      *slog.Logger
}

// Option configures a Bot.
type Option func(*Bot)

// WithConcurrency sets how many messages are handled at once.
func WithConcurrency(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLimiter replaces the per-chat rate limiter.
func WithLimiter(l *ChatLimiter) Option {
	return func(b *Bot) {
		b.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// NewBot creates a new Bot.
func NewBot(api API, handler *Handler, opts ...Option) *Bot {
	b := &Bot{
		api:         api,
		handler:     handler,
		limiter:     NewChatLimiter(DefaultChatRPS, DefaultChatBurst),
		concurrency: DefaultConcurrency,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run handles updates until ctx is canceled or the update channel closes.
// In-flight messages are answered before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	b.logger.Info("bot started", "concurrency", b.concurrency)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			_ = g.Wait()
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				_ = g.Wait()
				return nil
			}
			msg := update.Message
			if msg == nil || msg.Chat == nil {
				continue
			}
			g.Go(func() error {
				b.handle(ctx, msg)
				return nil
			})
		}
	}
}

// handle answers a single message. A panic is logged and the user gets a
// generic error reply.
func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic",
				"chat", chatID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			b.send(chatID, msg.MessageID, MsgInternal)
		}
	}()

	if !msg.IsCommand() && !b.limiter.Allow(chatID) {
		b.logger.Warn("rate limited", "chat", chatID)
		b.send(chatID, msg.MessageID, MsgRateLimited)
		return
	}

	b.send(chatID, msg.MessageID, b.handler.Reply(ctx, msg))
}

func (b *Bot) send(chatID int64, replyTo int, text string) {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyToMessageID = replyTo
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error("send failed", "chat", chatID, "err", err)
	}
}
