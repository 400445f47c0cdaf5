package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"workshop/internal/models"
)

// Notifier sends service notifications through Telegram
type Notifier struct {
	api botAPI
}

// NewNotifier creates a notifier over the bot API
func NewNotifier(api botAPI) *Notifier {
	return &Notifier{api: api}
}

// Notify sends a plain text message to a user
func (n *Notifier) Notify(ctx context.Context, telegramID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(telegramID, text)); err != nil {
		return fmt.Errorf("failed to notify %d: %w", telegramID, err)
	}
	return nil
}

// RequestApproval sends the admin a registration request with approve and reject buttons
func (n *Notifier) RequestApproval(ctx context.Context, adminID int64, employee models.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("🆕 Registration request\n\nName: %s\nPhone: %s\nTelegram ID: %d",
		employee.FullName, employee.Phone, employee.TelegramID)

	msg := tgbotapi.NewMessage(adminID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", approvalPayload(employee.TelegramID, true)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", approvalPayload(employee.TelegramID, false)),
		),
	)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send approval request: %w", err)
	}
	return nil
}
