package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"workshop/internal/service"
)

const workerHelp = `Available commands:
/work - Log completed work
/orders - Show active orders
/balance - Show your earnings and payments
/rates - Show work rates`

const adminHelp = `

Admin commands:
/neworder <number> <client> - Open an order
/close <number> - Complete an order
/employees - List employees
/addworker <phone> <full name> - Add an active worker
/export [days] - Download work logs (xlsx)`

// handleStart routes the user by registration state
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	isAdmin := b.employees.IsSuperAdmin(message.From.ID)

	employee, err := b.employees.ByTelegramID(ctx, message.From.ID)
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound) && !isAdmin:
		msg := tgbotapi.NewMessage(chatID, "👋 Welcome to the workshop bot!\n\nShare your phone number to register.")
		msg.ReplyMarkup = contactKeyboard()
		b.sendMessage(msg)
		return
	case err != nil && !errors.Is(err, service.ErrEmployeeNotFound):
		b.logger.Error("Failed to get employee", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.reply(chatID, "❌ Something went wrong. Please try again later.")
		return
	case employee != nil && !employee.IsActive:
		b.reply(chatID, "⏳ Your registration is awaiting admin approval.")
		return
	}

	text := "Welcome to the workshop bot! 🪚\n\n" + workerHelp
	if isAdmin {
		text += adminHelp
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenu()
	b.sendMessage(msg)

	if b.webAppURL != "" {
		dashboard := tgbotapi.NewMessage(chatID, "Open the dashboard:")
		dashboard.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("📊 Dashboard", b.webAppURL),
			),
		)
		b.sendMessage(dashboard)
	}
}

// handleContact registers the sender from their shared contact
func (b *Bot) handleContact(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	contact := message.Contact

	employee, err := b.employees.Register(ctx, service.Registration{
		TelegramID:    message.From.ID,
		ContactUserID: contact.UserID,
		FirstName:     contact.FirstName,
		LastName:      contact.LastName,
		Phone:         contact.PhoneNumber,
	})
	switch {
	case errors.Is(err, service.ErrContactMismatch):
		msg := tgbotapi.NewMessage(chatID, "❗ Please share your own contact using the button below.")
		msg.ReplyMarkup = contactKeyboard()
		b.sendMessage(msg)
		return
	case errors.Is(err, service.ErrAlreadyRegistered):
		b.reply(chatID, "You are already registered.")
		return
	case errors.Is(err, service.ErrPhoneTaken):
		b.reply(chatID, "This phone number is already registered to another account.")
		return
	case err != nil:
		b.logger.Error("Registration failed", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.reply(chatID, "❌ Registration failed. Please try again later.")
		return
	}

	if employee.IsActive {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Welcome, %s! Your account is ready.\n\n%s", employee.FullName, workerHelp))
		msg.ReplyMarkup = mainMenu()
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "✅ Request sent. Please wait for admin approval.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(msg)
}

// handleApprovalDecision applies the super-admin's approve or reject choice
func (b *Bot) handleApprovalDecision(ctx context.Context, query *tgbotapi.CallbackQuery, a ApprovalDecision) {
	if !b.employees.IsSuperAdmin(query.From.ID) {
		b.logger.Warn("Unauthorized approval attempt",
			zap.Int64("user_id", query.From.ID),
			zap.String("callback_data", query.Data),
		)
		return
	}

	chatID := callbackChatID(query)

	var err error
	verdict := "✅ Approved"
	if a.Approve {
		err = b.employees.Approve(ctx, a.UserID)
	} else {
		verdict = "❌ Rejected"
		err = b.employees.Reject(ctx, a.UserID)
	}

	if errors.Is(err, service.ErrEmployeeNotFound) {
		b.reply(chatID, fmt.Sprintf("Request from user %d was not found. It may have been handled already.", a.UserID))
		return
	}
	if err != nil {
		b.logger.Error("Failed to apply approval decision",
			zap.Error(err),
			zap.Int64("user_id", a.UserID),
			zap.Bool("approve", a.Approve),
		)
		b.reply(chatID, fmt.Sprintf("❌ Failed to update user %d: %v", a.UserID, err))
		return
	}

	if query.Message != nil {
		edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, fmt.Sprintf("%s\n\n%s", query.Message.Text, verdict))
		b.sendMessage(edit)
		return
	}
	b.reply(chatID, fmt.Sprintf("%s: user %d", verdict, a.UserID))
}
