package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/service"
	"workshop/internal/session"
)

// activeEmployee replies and returns nil unless the sender may log work
func (b *Bot) activeEmployee(ctx context.Context, message *tgbotapi.Message) *models.Employee {
	employee, err := b.employees.ByTelegramID(ctx, message.From.ID)
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		b.reply(message.Chat.ID, "You are not registered yet. Send /start to register.")
		return nil
	case err != nil:
		b.logger.Error("Failed to get employee", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.reply(message.Chat.ID, "❌ Something went wrong. Please try again later.")
		return nil
	case !employee.IsActive:
		b.reply(message.Chat.ID, "⏳ Your registration is awaiting admin approval.")
		return nil
	}
	return employee
}

// handleWork starts the work-log flow by listing active orders
func (b *Bot) handleWork(ctx context.Context, message *tgbotapi.Message) {
	if b.activeEmployee(ctx, message) == nil {
		return
	}

	orders, err := b.orders.ActiveOrders(ctx)
	if err != nil {
		b.logger.Error("Failed to list active orders", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.reply(message.Chat.ID, "❌ Failed to load orders. Please try again.")
		return
	}
	if len(orders) == 0 {
		b.reply(message.Chat.ID, "No active orders right now.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, order := range orders {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s · %s", orderLabel(order.OrderNumber), order.ClientName),
				orderPayload(order.ID, order.OrderNumber),
			),
		))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "📦 Select an order:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// handleOrderSelected opens a fresh draft, replacing any earlier one
func (b *Bot) handleOrderSelected(query *tgbotapi.CallbackQuery, a OrderSelected) {
	b.drafts.Set(query.From.ID, session.Draft{OrderID: a.OrderID, OrderNumber: a.OrderNumber})

	workTypes := b.work.Rates().WorkTypes()
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(workTypes))
	for _, workType := range workTypes {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(workType, workPayload(workType)))
	}

	msg := tgbotapi.NewMessage(callbackChatID(query), fmt.Sprintf("Order %s\n🛠 Select work type:", orderLabel(a.OrderNumber)))
	msg.ReplyMarkup = twoColumns(buttons)
	b.sendMessage(msg)
}

func (b *Bot) handleWorkTypeSelected(query *tgbotapi.CallbackQuery, a WorkTypeSelected) {
	chatID := callbackChatID(query)

	draft, ok := b.drafts.Get(query.From.ID)
	if !ok {
		b.reply(chatID, "⚠️ Session expired. Please start again with /work.")
		return
	}

	draft.WorkType = a.WorkType
	b.drafts.Set(query.From.ID, draft)

	rate := b.work.Rates().RateOf(a.WorkType)
	b.reply(chatID, fmt.Sprintf("%s: %s per unit\n✏️ Enter the quantity (e.g. 12.5):", a.WorkType, b.numbers.Format(rate)))
}

// handleQuantity completes a draft that has a work type; other text is ignored
func (b *Bot) handleQuantity(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	draft, ok := b.drafts.Get(userID)
	if !ok || !draft.HasWorkType() {
		return
	}

	quantity, err := service.ParseQuantity(message.Text)
	if err != nil {
		b.reply(message.Chat.ID, "❌ Please enter a positive number, e.g. 12 or 12,5")
		return
	}

	entry, err := b.work.SaveWorkLog(ctx, userID, draft.OrderID, draft.WorkType, quantity)
	b.drafts.Delete(userID)

	if errors.Is(err, service.ErrEmployeeNotFound) {
		b.reply(message.Chat.ID, "You are not registered yet. Send /start to register.")
		return
	}
	if err != nil {
		b.reply(message.Chat.ID, "❌ Failed to save work. Please start again with /work.")
		return
	}

	var text strings.Builder
	text.WriteString("✅ Work saved\n\n")
	text.WriteString(fmt.Sprintf("Order: %s\n", orderLabel(draft.OrderNumber)))
	text.WriteString(fmt.Sprintf("Work: %s\n", entry.WorkType))
	text.WriteString(fmt.Sprintf("Quantity: %s\n", b.numbers.Format(entry.MetricAmount)))
	text.WriteString(fmt.Sprintf("Rate: %s\n", b.numbers.Format(entry.Rate)))
	text.WriteString(fmt.Sprintf("Total: %s", b.numbers.Format(entry.TotalAmount)))
	b.reply(message.Chat.ID, text.String())
}

func (b *Bot) handleBalance(ctx context.Context, message *tgbotapi.Message) {
	employee := b.activeEmployee(ctx, message)
	if employee == nil || b.dashboard == nil {
		return
	}

	totals, err := b.dashboard.Totals(ctx, employee.ID)
	if err != nil {
		b.logger.Error("Failed to load totals", zap.Error(err), zap.String("employee_id", employee.ID))
		b.reply(message.Chat.ID, "❌ Failed to load balance. Please try again.")
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf("💰 Earned: %s\n✅ Paid: %s\n⏳ Pending: %s\n📊 Balance: %s",
		b.numbers.Format(totals.TotalEarned),
		b.numbers.Format(totals.TotalPaid),
		b.numbers.Format(totals.TotalPending),
		b.numbers.Format(totals.Balance),
	))
}
