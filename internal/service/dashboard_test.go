package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"workshop/internal/models"
)

type fakeLedger struct {
	totals    models.EmployeeTotals
	err       error
	recordErr error
}

func (l *fakeLedger) RecordWorkLog(ctx context.Context, log models.WorkLog) error { return l.recordErr }
func (l *fakeLedger) RecordPayment(ctx context.Context, p models.Payment) error   { return l.recordErr }
func (l *fakeLedger) EmployeeTotals(ctx context.Context, employeeID string) (models.EmployeeTotals, error) {
	return l.totals, l.err
}
func (l *fakeLedger) Close() error { return nil }

func TestDashboardService_Totals(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	ctx := context.Background()
	worker := addEmployee(t, db, 1, "+1", models.RoleWorker)

	_, err := db.CreateWorkLog(ctx, models.WorkLog{EmployeeID: worker.ID, TotalAmount: 50000})
	require.NoError(t, err)
	_, err = db.CreatePayment(ctx, models.Payment{EmployeeID: worker.ID, Amount: 20000, Status: models.PaymentApproved})
	require.NoError(t, err)

	totals, err := NewDashboardService(deps).Totals(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, totals.TotalEarned)
	assert.Equal(t, 20000.0, totals.TotalPaid)
	assert.Equal(t, 30000.0, totals.Balance)

	_, err = NewDashboardService(deps).Totals(ctx, "missing")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestDashboardService_StoreIsAuthoritative(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	core, logs := observer.New(zap.WarnLevel)
	deps.Logger = zap.New(core)
	worker := addEmployee(t, db, 1, "+1", models.RoleWorker)

	deps.Ledger = &fakeLedger{totals: models.EmployeeTotals{EmployeeID: worker.ID, TotalPaid: 7}}
	totals, err := NewDashboardService(deps).Totals(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.TotalPaid)
	assert.Equal(t, 1, logs.FilterMessage("Ledger totals drifted from store").Len())

	deps.Ledger = &fakeLedger{err: errors.New("clickhouse down")}
	totals, err = NewDashboardService(deps).Totals(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.TotalPaid)
	assert.Equal(t, worker.ID, totals.EmployeeID)
	assert.Equal(t, 1, logs.FilterMessage("Ledger totals unavailable").Len())
}

func TestDashboardService_FailedMirrorKeepsTotals(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	ctx := context.Background()
	ledger := &fakeLedger{recordErr: errors.New("clickhouse down")}
	deps.Ledger = ledger

	admin := addEmployee(t, db, 1000, "+1000", models.RoleAdmin)
	worker := addEmployee(t, db, 1, "+1", models.RoleWorker)

	payments := NewPaymentService(deps, "UZS")
	_, err := payments.CreatePayment(ctx, PaymentRequest{EmployeeID: worker.ID, Amount: 5000, CreatedBy: admin.ID})
	require.NoError(t, err)
	payments.Wait()

	totals, err := NewDashboardService(deps).Totals(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, totals.TotalPaid)
	assert.Equal(t, -5000.0, totals.Balance)
}
