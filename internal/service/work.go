package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/rates"
	"workshop/internal/storage"
)

// WorkService records piecework against the rate table
type WorkService struct {
	deps  Deps
	rates *rates.Table
}

// NewWorkService creates a work-log service
func NewWorkService(deps Deps, table *rates.Table) *WorkService {
	return &WorkService{deps: deps.withDefaults(), rates: table}
}

// Rates returns the rate table used for new entries
func (s *WorkService) Rates() *rates.Table {
	return s.rates
}

// decimalPattern is a plain decimal: no sign, exponent, hex or digit separators
var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseQuantity parses a positive decimal, accepting a comma as the decimal separator
func ParseQuantity(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if !decimalPattern.MatchString(normalized) {
		return 0, ErrInvalidQuantity
	}
	q, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

// SaveWorkLog persists a work log for the employee behind telegramID. The rate is
// snapshotted so later tariff changes never alter historical totals.
func (s *WorkService) SaveWorkLog(ctx context.Context, telegramID int64, orderID, workType string, quantity float64) (models.WorkLog, error) {
	if quantity <= 0 {
		return models.WorkLog{}, ErrInvalidQuantity
	}

	lookupCtx, cancel := s.deps.bounded(ctx)
	employee, err := s.deps.Store.GetEmployeeByTelegramID(lookupCtx, telegramID)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return models.WorkLog{}, ErrEmployeeNotFound
	}
	if err != nil {
		return models.WorkLog{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	rate := s.rates.RateOf(workType)
	entry := models.WorkLog{
		EmployeeID:   employee.ID,
		OrderID:      orderID,
		WorkType:     workType,
		MetricAmount: quantity,
		Rate:         rate,
		TotalAmount:  quantity * rate,
	}

	writeCtx, cancel := s.deps.bounded(ctx)
	saved, err := s.deps.Store.CreateWorkLog(writeCtx, entry)
	cancel()
	if err != nil {
		s.deps.Logger.Error("Failed to save work log",
			zap.Error(err),
			zap.Int64("user_id", telegramID),
			zap.String("order_id", orderID),
			zap.String("work_type", workType),
		)
		return models.WorkLog{}, fmt.Errorf("failed to save work log: %w", err)
	}

	s.deps.Logger.Info("Work log saved",
		zap.String("employee_id", employee.ID),
		zap.String("order_id", orderID),
		zap.String("work_type", workType),
		zap.Float64("quantity", quantity),
		zap.Float64("total", saved.TotalAmount),
	)
	s.deps.recordWorkLog(ctx, saved)
	return saved, nil
}

// Report returns work logs created within the last days, oldest first
func (s *WorkService) Report(ctx context.Context, now time.Time, days int) ([]models.WorkLogReportRow, error) {
	if days <= 0 {
		days = 30
	}
	ctx, cancel := s.deps.bounded(ctx)
	defer cancel()

	rows, err := s.deps.Store.ListWorkLogReport(ctx, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, fmt.Errorf("failed to load work log report: %w", err)
	}
	return rows, nil
}
