package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"workshop/internal/service"
	"workshop/internal/session"
)

// NewAPI connects to Telegram with the bot token
func NewAPI(token string, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))
	return api, nil
}

// NewBot creates a new Telegram bot over an existing API connection
func NewBot(api botAPI, deps Dependencies, logger *zap.Logger) *Bot {
	if deps.Drafts == nil {
		deps.Drafts = session.NewMemoryStore()
	}
	if deps.Numbers == nil {
		deps.Numbers = service.NewNumberFormatter(language.English)
	}

	return &Bot{
		api:       api,
		work:      deps.Work,
		orders:    deps.Orders,
		employees: deps.Employees,
		dashboard: deps.Dashboard,
		drafts:    deps.Drafts,
		numbers:   deps.Numbers,
		webAppURL: deps.WebAppURL,
		locks:     newUserLocks(),
		queues:    newUserQueues(),
		logger:    logger,
	}
}
