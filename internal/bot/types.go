package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"workshop/internal/service"
	"workshop/internal/session"
)

// botAPI is the subset of *tgbotapi.BotAPI the bot uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetWebhookInfo() (tgbotapi.WebhookInfo, error)
}

// Dependencies are the services the bot dispatches to
type Dependencies struct {
	Work      *service.WorkService
	Orders    *service.OrderService
	Employees *service.EmployeeService
	Dashboard *service.DashboardService
	Drafts    session.Store
	Numbers   *service.NumberFormatter
	WebAppURL string
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	api       botAPI
	work      *service.WorkService
	orders    *service.OrderService
	employees *service.EmployeeService
	dashboard *service.DashboardService
	drafts    session.Store
	numbers   *service.NumberFormatter
	webAppURL string
	locks     *userLocks
	queues    *userQueues
	logger    *zap.Logger
}
