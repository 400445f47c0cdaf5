package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"workshop/internal/models"
	"workshop/internal/storage"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrAlreadyRegistered = errors.New("employee already registered")
	ErrPhoneTaken        = errors.New("phone number already registered")
	ErrContactMismatch   = errors.New("contact does not belong to sender")
	ErrOrderExists       = errors.New("order already exists")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrSettingsMissing   = errors.New("system settings missing")
	ErrCreatorNotFound   = errors.New("payment creator not found")
	ErrPaymentNotFound   = errors.New("pending payment not found")
	ErrInvalidPayment    = errors.New("invalid payment")
)

// Notifier delivers outward messages. Callers treat every error as advisory.
type Notifier interface {
	Notify(ctx context.Context, telegramID int64, text string) error
	// RequestApproval asks the admin to approve or reject a new employee
	RequestApproval(ctx context.Context, adminID int64, employee models.Employee) error
}

// Deps are the collaborators shared by all services
type Deps struct {
	Store    storage.Storage
	Ledger   storage.Ledger // optional
	Notifier Notifier
	Numbers  *NumberFormatter
	Timeout  time.Duration // bound on each store or notifier call
	Logger   *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Numbers == nil {
		d.Numbers = NewNumberFormatter(language.English)
	}
	return d
}

func (d Deps) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.Timeout)
}

func (d Deps) notify(ctx context.Context, telegramID int64, text string) {
	if d.Notifier == nil || telegramID == 0 {
		return
	}
	ctx, cancel := d.bounded(ctx)
	defer cancel()
	if err := d.Notifier.Notify(ctx, telegramID, text); err != nil {
		d.Logger.Warn("Notification failed", zap.Int64("user_id", telegramID), zap.Error(err))
	}
}

func (d Deps) recordWorkLog(ctx context.Context, log models.WorkLog) {
	if d.Ledger == nil {
		return
	}
	ctx, cancel := d.bounded(ctx)
	defer cancel()
	if err := d.Ledger.RecordWorkLog(ctx, log); err != nil {
		d.Logger.Warn("Failed to mirror work log to ledger", zap.String("work_log_id", log.ID), zap.Error(err))
	}
}

func (d Deps) recordPayment(ctx context.Context, payment models.Payment) {
	if d.Ledger == nil {
		return
	}
	ctx, cancel := d.bounded(ctx)
	defer cancel()
	if err := d.Ledger.RecordPayment(ctx, payment); err != nil {
		d.Logger.Warn("Failed to mirror payment to ledger", zap.String("payment_id", payment.ID), zap.Error(err))
	}
}

// NumberFormatter renders amounts with locale thousands grouping
type NumberFormatter struct {
	printer *message.Printer
}

// NewNumberFormatter creates a formatter for the locale
func NewNumberFormatter(tag language.Tag) *NumberFormatter {
	return &NumberFormatter{printer: message.NewPrinter(tag)}
}

// Format renders v with grouping and at most two fraction digits
func (f *NumberFormatter) Format(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
