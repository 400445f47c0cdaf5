package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/report"
	"workshop/internal/service"
)

// requireAdmin replies and returns false unless the sender is the super-admin
func (b *Bot) requireAdmin(message *tgbotapi.Message) bool {
	if b.employees.IsSuperAdmin(message.From.ID) {
		return true
	}
	b.logger.Warn("Unauthorized admin command",
		zap.Int64("user_id", message.From.ID),
		zap.String("command", message.Command()),
	)
	b.reply(message.Chat.ID, "⛔ This command is for the administrator only.")
	return false
}

// handleNewOrder opens an order: /neworder <number> <client name>
func (b *Bot) handleNewOrder(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(message) {
		return
	}

	fields := strings.Fields(message.CommandArguments())
	if len(fields) < 2 {
		b.reply(message.Chat.ID, "Usage: /neworder <number> <client name>\n\nExample: /neworder A-17 Karimov Aziz")
		return
	}
	number, client := fields[0], strings.Join(fields[1:], " ")

	order, err := b.orders.CreateOrder(ctx, number, client)
	switch {
	case errors.Is(err, service.ErrOrderExists):
		b.reply(message.Chat.ID, fmt.Sprintf("❌ Order %s already exists.", orderLabel(number)))
		return
	case errors.Is(err, service.ErrInvalidOrder):
		b.reply(message.Chat.ID, fmt.Sprintf("❌ Invalid order: order numbers are at most %d characters.", service.MaxOrderNumberLen))
		return
	case err != nil:
		b.logger.Error("Failed to create order", zap.Error(err), zap.String("order_number", number))
		b.reply(message.Chat.ID, "❌ Failed to create order. Please try again.")
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf("✅ Order %s opened for %s.", orderLabel(order.OrderNumber), order.ClientName))
}

// handleOrders lists in-progress orders
func (b *Bot) handleOrders(ctx context.Context, message *tgbotapi.Message) {
	if !b.employees.IsSuperAdmin(message.From.ID) && b.activeEmployee(ctx, message) == nil {
		return
	}

	orders, err := b.orders.ActiveOrders(ctx)
	if err != nil {
		b.logger.Error("Failed to list active orders", zap.Error(err))
		b.reply(message.Chat.ID, "❌ Failed to load orders. Please try again.")
		return
	}
	if len(orders) == 0 {
		b.reply(message.Chat.ID, "No active orders right now.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Active orders:\n\n")
	for i, order := range orders {
		text.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n",
			i+1,
			orderLabel(order.OrderNumber),
			order.ClientName,
			order.CreatedAt.Format("2006-01-02")))
	}
	b.reply(message.Chat.ID, text.String())
}

// handleCloseOrder completes an order: /close <number>
func (b *Bot) handleCloseOrder(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(message) {
		return
	}

	number := strings.TrimSpace(message.CommandArguments())
	if number == "" {
		b.reply(message.Chat.ID, "Usage: /close <number>")
		return
	}

	closed, err := b.orders.CloseOrder(ctx, number)
	if err != nil {
		b.logger.Error("Failed to close order", zap.Error(err), zap.String("order_number", number))
		b.reply(message.Chat.ID, "❌ Failed to close order. Please try again.")
		return
	}
	if !closed {
		b.reply(message.Chat.ID, fmt.Sprintf("No active order %s found.", orderLabel(number)))
		return
	}
	b.reply(message.Chat.ID, fmt.Sprintf("✅ Order %s completed.", orderLabel(number)))
}

func (b *Bot) handleEmployees(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(message) {
		return
	}

	employees, err := b.employees.List(ctx)
	if err != nil {
		b.logger.Error("Failed to list employees", zap.Error(err))
		b.reply(message.Chat.ID, "❌ Failed to load employees.")
		return
	}
	if len(employees) == 0 {
		b.reply(message.Chat.ID, "No employees yet.")
		return
	}

	var text strings.Builder
	text.WriteString("👷 Employees:\n\n")
	for i, e := range employees {
		status := "active"
		if !e.IsActive {
			status = "pending"
		}
		text.WriteString(fmt.Sprintf("%d. %s %s [%s, %s]\n", i+1, e.FullName, e.Phone, e.Role, status))
	}
	b.reply(message.Chat.ID, text.String())
}

// handleAddWorker creates an active worker: /addworker <phone> <full name>
func (b *Bot) handleAddWorker(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(message) {
		return
	}

	fields := strings.Fields(message.CommandArguments())
	if len(fields) < 2 {
		b.reply(message.Chat.ID, "Usage: /addworker <phone> <full name>\n\nExample: /addworker +998901234567 Ali Valiyev")
		return
	}

	employee, err := b.employees.CreateEmployee(ctx, strings.Join(fields[1:], " "), fields[0], models.RoleWorker)
	if errors.Is(err, service.ErrPhoneTaken) {
		b.reply(message.Chat.ID, "❌ This phone number is already registered.")
		return
	}
	if err != nil {
		b.logger.Error("Failed to add worker", zap.Error(err))
		b.reply(message.Chat.ID, "❌ Failed to add worker. Please try again.")
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf("✅ %s (%s) added. They can now share their contact with the bot to sign in.", employee.FullName, employee.Phone))
}

func (b *Bot) handleRates(message *tgbotapi.Message) {
	table := b.work.Rates()

	var text strings.Builder
	text.WriteString("💵 Rates:\n\n")
	for _, workType := range table.WorkTypes() {
		text.WriteString(fmt.Sprintf("%s - %s\n", workType, b.numbers.Format(table.RateOf(workType))))
	}
	b.reply(message.Chat.ID, text.String())
}

// handleExport sends the recent work logs as a spreadsheet: /export [days]
func (b *Bot) handleExport(ctx context.Context, message *tgbotapi.Message) {
	if !b.requireAdmin(message) {
		return
	}

	days := 0
	if arg := strings.TrimSpace(message.CommandArguments()); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			b.reply(message.Chat.ID, "Usage: /export [days]")
			return
		}
		days = n
	}

	now := time.Now()
	rows, err := b.work.Report(ctx, now, days)
	if err != nil {
		b.logger.Error("Failed to load work log report", zap.Error(err))
		b.reply(message.Chat.ID, "❌ Failed to build the report.")
		return
	}
	if len(rows) == 0 {
		b.reply(message.Chat.ID, "No work logged in this period.")
		return
	}

	data, err := report.WorkLogs(rows)
	if err != nil {
		b.logger.Error("Failed to render work log report", zap.Error(err))
		b.reply(message.Chat.ID, "❌ Failed to build the report.")
		return
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("work_logs_%s.xlsx", now.Format("2006-01-02")),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📊 %d work log entries", len(rows))
	b.sendMessage(doc)
}
