// Package telegram exposes the analyzer as a Telegram chat bot.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/repscan"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DefaultAnalyzeTimeout bounds a single analysis started from chat.
const DefaultAnalyzeTimeout = 2 * time.Minute

// maxMessageLength is Telegram's limit for a text message, in characters.
const maxMessageLength = 4096

// Replies sent to users.
const (
	MsgStart       = "Olá! Envie o link do conteúdo que você deseja que eu analise."
	MsgHelp        = "Envie um link (por exemplo https://exemplo.com/noticia) para receber uma análise de reputação."
	MsgExhausted   = "Não consegui acessar ou extrair conteúdo do link fornecido. Verifique se ele está correto e acessível."
	MsgUnavailable = "Não consegui gerar a análise agora. Tente novamente em alguns minutos."
	MsgInvalid     = "Isso não parece um link válido. Envie uma URL começando com http:// ou https://."
	MsgTimeout     = "A análise demorou demais e foi interrompida. Tente novamente mais tarde."
	MsgInternal    = "Ocorreu um erro inesperado. Tente novamente."
	MsgRateLimited = "Muitas solicitações. Aguarde um momento antes de enviar outro link."
	MsgNotSaved    = "(Aviso: a análise não pôde ser salva.)"
	analysisHeader = "[ANÁLISE]\n"
)

// Handler turns chat messages into replies.
type Handler struct {
	Analyzer repscan.Analyzer

	// Timeout bounds each analysis. Defaults to DefaultAnalyzeTimeout.
	Timeout time.Duration

	Logger *slog.Logger
}

// Reply returns the text to send back for msg.
func (h *Handler) Reply(ctx context.Context, msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return MsgStart
		default:
			return MsgHelp
		}
	}
	return h.Analyze(ctx, msg.Text)
}

// Analyze runs the analyzer for text and formats the outcome for chat.
func (h *Handler) Analyze(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return MsgHelp
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultAnalyzeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	analysis, err := h.Analyzer.Analyze(ctx, text)
	if err != nil {
		h.logger().Warn("analysis failed", "input", text, "code", repscan.ErrorCode(err), "err", err)
		return FailureMessage(err)
	}

	reply := analysisHeader + analysis.Classification
	if analysis.PersistWarning != nil {
		reply = truncate(reply, maxMessageLength-len([]rune(MsgNotSaved))-2) + "\n\n" + MsgNotSaved
	}
	return truncate(reply, maxMessageLength)
}

// FailureMessage maps an analysis error to the message shown to the user.
func FailureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	switch repscan.ErrorCode(err) {
	case repscan.EEXHAUSTED:
		return MsgExhausted
	case repscan.EUNAVAILABLE:
		return MsgUnavailable
	case repscan.EINVALID:
		return MsgInvalid
	default:
		return MsgInternal
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.DiscardHandler)
}
