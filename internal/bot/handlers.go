package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// HandleUpdate processes a single update. Turns of the same user never overlap.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		unlock := b.locks.lock(update.Message.From.ID)
		defer unlock()
		b.handleMessage(ctx, update.Message)

	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		unlock := b.locks.lock(update.CallbackQuery.From.ID)
		defer unlock()
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// handleMessage processes a single message
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	if message.Contact != nil {
		b.handleContact(ctx, message)
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	switch message.Text {
	case menuLogWork:
		b.handleWork(ctx, message)
	case menuOrders:
		b.handleOrders(ctx, message)
	case menuBalance:
		b.handleBalance(ctx, message)
	default:
		b.handleQuantity(ctx, message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start", "help":
		b.handleStart(ctx, message)
	case "work":
		b.handleWork(ctx, message)
	case "orders":
		b.handleOrders(ctx, message)
	case "balance":
		b.handleBalance(ctx, message)
	case "rates":
		b.handleRates(message)
	case "neworder":
		b.handleNewOrder(ctx, message)
	case "close":
		b.handleCloseOrder(ctx, message)
	case "employees":
		b.handleEmployees(ctx, message)
	case "addworker":
		b.handleAddWorker(ctx, message)
	case "export":
		b.handleExport(ctx, message)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /start to see available commands.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove loading state
	b.answerCallback(query)

	action, ok := ParseAction(query.Data)
	if !ok {
		b.logger.Debug("Ignoring unknown callback", zap.String("callback_data", query.Data))
		return
	}

	switch a := action.(type) {
	case OrderSelected:
		b.handleOrderSelected(query, a)
	case WorkTypeSelected:
		b.handleWorkTypeSelected(query, a)
	case ApprovalDecision:
		b.handleApprovalDecision(ctx, query, a)
	}
}
