package alert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/navid-fn/radar/internal/models"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts one summary message per cycle to a chat.
type TelegramNotifier struct {
	bot    messageSender
	chatID int64
	logger *slog.Logger
}

func NewTelegramNotifier(botToken string, chatID int64, logger *slog.Logger) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	bot.Debug = false

	logger = logger.With("notifier", "telegram")
	logger.Info("Telegram notifier initialized", "bot_username", bot.Self.UserName)

	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, ops []models.Opportunity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatOpportunities(ops))
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatOpportunities renders a plain-text summary, one line per opportunity.
func FormatOpportunities(ops []models.Opportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arbitrage opportunities (%d)", len(ops))
	if len(ops) > 0 {
		fmt.Fprintf(&b, " at %s", ops[0].Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	b.WriteString("\n")

	for i, op := range ops {
		fmt.Fprintf(&b, "\n%d. %s %s%%\n", i+1, op.Symbol, signed(op.PercentageDifference.StringFixed(2)))
		fmt.Fprintf(&b, "   USDT %s | bridged %s TMN | direct %s TMN\n",
			op.USDTPrice.String(), op.BridgedPrice.StringFixed(0), op.TMNPrice.String())
		fmt.Fprintf(&b, "   quote volume %s USDT / %s TMN\n",
			op.USDTQuoteVolume.StringFixed(0), op.TMNQuoteVolume.StringFixed(0))
	}
	return b.String()
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
