// Package api is the HTTP boundary: Telegram webhook relay, payments and dashboard.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"workshop/internal/bot"
	"workshop/internal/service"
)

// UpdateHandler queues updates delivered to the webhook; it must not block
type UpdateHandler interface {
	HandleWebhookUpdate(update tgbotapi.Update)
}

// Dependencies are the collaborators behind the HTTP routes
type Dependencies struct {
	Updates   UpdateHandler
	Payments  *service.PaymentService
	Dashboard *service.DashboardService
	Employees *service.EmployeeService
	BotToken  string
	// WebhookMode enables Mini App authentication; polling mode is local development
	WebhookMode bool
	Logger      *zap.Logger
}

// Server handles HTTP requests
type Server struct {
	updates     UpdateHandler
	payments    *service.PaymentService
	dashboard   *service.DashboardService
	employees   *service.EmployeeService
	botToken    string
	webhookMode bool
	logger      *zap.Logger
	now         func() time.Time
}

// NewServer creates the HTTP server handlers
func NewServer(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		updates:     deps.Updates,
		payments:    deps.Payments,
		dashboard:   deps.Dashboard,
		employees:   deps.Employees,
		botToken:    deps.BotToken,
		webhookMode: deps.WebhookMode,
		logger:      logger,
		now:         time.Now,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post(bot.WebhookRoute(s.botToken), s.handleWebhook)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/payments", s.handleCreatePayment)
		r.Get("/dashboard/{employeeID}", s.handleDashboard)
		r.Post("/admin/payments/{paymentID}/approve", s.handleApprovePayment)
	})

	return r
}

// requestLogger logs one structured line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
