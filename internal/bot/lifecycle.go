package bot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// WebhookPath is the prefix of the route Telegram delivers updates to
const WebhookPath = "/telegram-webhook"

// WebhookRoute returns WebhookPath followed by a secret segment derived from
// the bot token. Only Telegram learns it, through setWebhook.
func WebhookRoute(token string) string {
	sum := sha256.Sum256([]byte(token))
	return WebhookPath + "/" + hex.EncodeToString(sum[:])[:32]
}

// Start runs the bot in polling mode until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started successfully. Waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Bot polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// StartWebhook registers baseURL + route with Telegram
func (b *Bot) StartWebhook(baseURL, route string) error {
	b.logger.Info("Setting up webhook", zap.String("webhook_url", baseURL))

	webhookConfig, err := tgbotapi.NewWebhook(baseURL + route)
	if err != nil {
		return err
	}
	webhookConfig.MaxConnections = 40

	if _, err := b.api.Request(webhookConfig); err != nil {
		b.logger.Error("Failed to set webhook", zap.Error(err), zap.String("webhook_url", baseURL))
		return err
	}

	// Get webhook info to verify
	info, err := b.api.GetWebhookInfo()
	if err != nil {
		b.logger.Warn("Failed to get webhook info", zap.Error(err))
	} else {
		b.logger.Info("Webhook set successfully",
			zap.Bool("registered", info.IsSet()),
			zap.Int("pending_updates", info.PendingUpdateCount),
		)
	}

	b.logger.Info("Bot configured for webhook mode")
	return nil
}

// HandleWebhookUpdate queues an update delivered over HTTP and returns at once.
// Updates of one user are handled in the order they were queued.
func (b *Bot) HandleWebhookUpdate(update tgbotapi.Update) {
	userID := senderID(update)
	if userID == 0 {
		return
	}
	b.queues.push(userID, update, func(u tgbotapi.Update) {
		b.HandleUpdate(context.Background(), u)
	})
}

// Wait blocks until queued webhook updates have been handled
func (b *Bot) Wait() {
	b.queues.wait()
}
