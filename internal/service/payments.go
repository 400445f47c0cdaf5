package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/storage"
)

// PaymentRequest is an incoming payment, as posted to the HTTP boundary
type PaymentRequest struct {
	EmployeeID  string  `json:"employee_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	CreatedBy   string  `json:"created_by"`
}

// PaymentService decides payment status at creation time and notifies approved payees
type PaymentService struct {
	deps     Deps
	currency string
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewPaymentService creates a payment service. currency fills requests that omit one.
func NewPaymentService(deps Deps, currency string) *PaymentService {
	return &PaymentService{deps: deps.withDefaults(), currency: currency, now: time.Now}
}

// DecideStatus is the approval policy: admins are always approved, others up to the limit inclusive
func DecideStatus(amount, limit float64, creatorRole models.Role) models.PaymentStatus {
	if creatorRole == models.RoleAdmin || amount <= limit {
		return models.PaymentApproved
	}
	return models.PaymentPending
}

// CreatePayment persists a payment with its status decided once. The approved
// notification runs in the background and never affects the result.
func (s *PaymentService) CreatePayment(ctx context.Context, req PaymentRequest) (models.Payment, error) {
	if req.Amount <= 0 {
		return models.Payment{}, fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if req.EmployeeID == "" || req.CreatedBy == "" {
		return models.Payment{}, fmt.Errorf("%w: employee_id and created_by are required", ErrInvalidPayment)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.currency
	}

	settingsCtx, cancel := s.deps.bounded(ctx)
	settings, err := s.deps.Store.GetSettings(settingsCtx)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		s.deps.Logger.Error("System settings row is missing")
		return models.Payment{}, ErrSettingsMissing
	}
	if err != nil {
		return models.Payment{}, fmt.Errorf("failed to load settings: %w", err)
	}

	creatorCtx, cancel := s.deps.bounded(ctx)
	creator, err := s.deps.Store.GetEmployee(creatorCtx, req.CreatedBy)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return models.Payment{}, ErrCreatorNotFound
	}
	if err != nil {
		return models.Payment{}, fmt.Errorf("failed to load creator: %w", err)
	}

	payeeCtx, cancel := s.deps.bounded(ctx)
	_, err = s.deps.Store.GetEmployee(payeeCtx, req.EmployeeID)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return models.Payment{}, ErrEmployeeNotFound
	}
	if err != nil {
		return models.Payment{}, fmt.Errorf("failed to load employee: %w", err)
	}

	status := DecideStatus(req.Amount, settings.AutoApproveLimit, creator.Role)

	writeCtx, cancel := s.deps.bounded(ctx)
	payment, err := s.deps.Store.CreatePayment(writeCtx, models.Payment{
		EmployeeID:  req.EmployeeID,
		Amount:      req.Amount,
		Currency:    currency,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   req.CreatedBy,
		Status:      status,
	})
	cancel()
	if err != nil {
		s.deps.Logger.Error("Failed to create payment", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return models.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	s.deps.Logger.Info("Payment created",
		zap.String("payment_id", payment.ID),
		zap.String("employee_id", payment.EmployeeID),
		zap.Float64("amount", payment.Amount),
		zap.String("status", string(payment.Status)),
	)
	s.deps.recordPayment(ctx, payment)

	if payment.Status == models.PaymentApproved {
		s.notifyApprovedAsync(payment)
	}
	return payment, nil
}

// ApprovePayment moves a pending payment to approved and notifies the payee
func (s *PaymentService) ApprovePayment(ctx context.Context, paymentID string) (models.Payment, error) {
	writeCtx, cancel := s.deps.bounded(ctx)
	updated, err := s.deps.Store.ApprovePayment(writeCtx, paymentID, s.now())
	cancel()
	if err != nil {
		return models.Payment{}, fmt.Errorf("failed to approve payment: %w", err)
	}
	if !updated {
		return models.Payment{}, ErrPaymentNotFound
	}

	readCtx, cancel := s.deps.bounded(ctx)
	payment, err := s.deps.Store.GetPayment(readCtx, paymentID)
	cancel()
	if err != nil {
		return models.Payment{}, fmt.Errorf("failed to load payment: %w", err)
	}

	s.deps.Logger.Info("Payment approved", zap.String("payment_id", paymentID))
	s.deps.recordPayment(ctx, *payment)
	s.notifyApprovedAsync(*payment)
	return *payment, nil
}

// Wait blocks until background notifications have finished
func (s *PaymentService) Wait() {
	s.wg.Wait()
}

func (s *PaymentService) notifyApprovedAsync(payment models.Payment) {
	if s.deps.Notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// detached from the request so the response never waits on delivery
		ctx, cancel := s.deps.bounded(context.Background())
		defer cancel()

		employee, err := s.deps.Store.GetEmployee(ctx, payment.EmployeeID)
		if err != nil {
			s.deps.Logger.Warn("Failed to load payee for notification",
				zap.String("payment_id", payment.ID),
				zap.Error(err),
			)
			return
		}
		if employee.TelegramID == 0 {
			return
		}
		s.deps.notify(ctx, employee.TelegramID, s.approvedText(payment))
	}()
}

func (s *PaymentService) approvedText(p models.Payment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 Payment: %s %s\n", s.deps.Numbers.Format(p.Amount), p.Currency)
	if p.Description != "" {
		fmt.Fprintf(&b, "📝 %s\n", p.Description)
	}
	b.WriteString("✅ Status: approved")
	return b.String()
}
