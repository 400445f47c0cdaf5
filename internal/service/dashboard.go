package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/storage"
)

// DashboardService reads per-employee aggregates
type DashboardService struct {
	deps Deps
}

// NewDashboardService creates a dashboard service
func NewDashboardService(deps Deps) *DashboardService {
	return &DashboardService{deps: deps.withDefaults()}
}

// Totals returns earned, paid and pending sums for an employee from the store.
// When a ledger is configured its totals are compared and drift is logged.
func (s *DashboardService) Totals(ctx context.Context, employeeID string) (models.EmployeeTotals, error) {
	lookupCtx, cancel := s.deps.bounded(ctx)
	_, err := s.deps.Store.GetEmployee(lookupCtx, employeeID)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return models.EmployeeTotals{}, ErrEmployeeNotFound
	}
	if err != nil {
		return models.EmployeeTotals{}, fmt.Errorf("failed to get employee: %w", err)
	}

	storeCtx, cancel := s.deps.bounded(ctx)
	totals, err := s.deps.Store.EmployeeTotals(storeCtx, employeeID)
	cancel()
	if err != nil {
		return models.EmployeeTotals{}, fmt.Errorf("failed to compute totals: %w", err)
	}

	s.checkLedger(ctx, totals)
	return totals, nil
}

// checkLedger warns when the ledger disagrees with the store
func (s *DashboardService) checkLedger(ctx context.Context, want models.EmployeeTotals) {
	if s.deps.Ledger == nil {
		return
	}
	ledgerCtx, cancel := s.deps.bounded(ctx)
	defer cancel()
	got, err := s.deps.Ledger.EmployeeTotals(ledgerCtx, want.EmployeeID)
	if err != nil {
		s.deps.Logger.Warn("Ledger totals unavailable",
			zap.String("employee_id", want.EmployeeID),
			zap.Error(err),
		)
		return
	}
	if !sameTotals(got, want) {
		s.deps.Logger.Warn("Ledger totals drifted from store",
			zap.String("employee_id", want.EmployeeID),
			zap.Float64("store_earned", want.TotalEarned),
			zap.Float64("ledger_earned", got.TotalEarned),
			zap.Float64("store_paid", want.TotalPaid),
			zap.Float64("ledger_paid", got.TotalPaid),
			zap.Float64("store_pending", want.TotalPending),
			zap.Float64("ledger_pending", got.TotalPending),
		)
	}
}

func sameTotals(a, b models.EmployeeTotals) bool {
	const eps = 0.005
	return math.Abs(a.TotalEarned-b.TotalEarned) < eps &&
		math.Abs(a.TotalPaid-b.TotalPaid) < eps &&
		math.Abs(a.TotalPending-b.TotalPending) < eps
}
