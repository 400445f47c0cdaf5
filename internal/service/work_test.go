package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop/internal/models"
	"workshop/internal/rates"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "12", want: 12},
		{in: "2.5", want: 2.5},
		{in: "2,5", want: 2.5},
		{in: "  7 ", want: 7},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "0x1p3", wantErr: true},
		{in: "1_0", wantErr: true},
		{in: "1e3", wantErr: true},
		{in: "+5", wantErr: true},
		{in: "1,000.5", wantErr: true},
		{in: ".5", wantErr: true},
		{in: "0,25", want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkService_SaveWorkLog(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	svc := NewWorkService(deps, rates.Default())
	ctx := context.Background()

	emp := addEmployee(t, db, 100, "+998901234567", models.RoleWorker)
	order, err := db.CreateOrder(ctx, "A-17", "Karimov")
	require.NoError(t, err)

	saved, err := svc.SaveWorkLog(ctx, 100, order.ID, "Sborka", 3)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, saved.EmployeeID)
	assert.Equal(t, 4000.0, saved.Rate)
	assert.Equal(t, 12000.0, saved.TotalAmount)

	logs := db.WorkLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Sborka", logs[0].WorkType)
}

func TestWorkService_RateSnapshotSurvivesTariffChange(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	ctx := context.Background()
	addEmployee(t, db, 100, "+998901234567", models.RoleWorker)

	before := NewWorkService(deps, rates.NewTable([]rates.Rate{{WorkType: "Sborka", Price: 4000}}))
	saved, err := before.SaveWorkLog(ctx, 100, "order-1", "Sborka", 2)
	require.NoError(t, err)

	after := NewWorkService(deps, rates.NewTable([]rates.Rate{{WorkType: "Sborka", Price: 9000}}))
	_, err = after.SaveWorkLog(ctx, 100, "order-1", "Sborka", 2)
	require.NoError(t, err)

	logs := db.WorkLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, saved.ID, logs[0].ID)
	assert.Equal(t, 4000.0, logs[0].Rate)
	assert.Equal(t, 8000.0, logs[0].TotalAmount)
	assert.Equal(t, 9000.0, logs[1].Rate)
	assert.Equal(t, 18000.0, logs[1].TotalAmount)
}

func TestWorkService_UnknownWorkTypeHasZeroRate(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	svc := NewWorkService(deps, rates.Default())
	addEmployee(t, db, 1, "+1", models.RoleWorker)

	saved, err := svc.SaveWorkLog(context.Background(), 1, "order-1", "Polish", 5)
	require.NoError(t, err)
	assert.Zero(t, saved.Rate)
	assert.Zero(t, saved.TotalAmount)
}

func TestWorkService_Errors(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	svc := NewWorkService(deps, rates.Default())
	ctx := context.Background()

	_, err := svc.SaveWorkLog(ctx, 404, "order-1", "Kesish", 1)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	addEmployee(t, db, 1, "+1", models.RoleWorker)
	_, err = svc.SaveWorkLog(ctx, 1, "order-1", "Kesish", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	boom := errors.New("db down")
	db.FailOn("CreateWorkLog", boom)
	_, err = svc.SaveWorkLog(ctx, 1, "order-1", "Kesish", 1)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, db.WorkLogs())
}

func TestWorkService_Report(t *testing.T) {
	deps, db, _ := newTestDeps(t)
	svc := NewWorkService(deps, rates.Default())
	ctx := context.Background()

	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	stamp := now.AddDate(0, 0, -40)
	db.SetClock(func() time.Time { return stamp })

	emp := addEmployee(t, db, 1, "+1", models.RoleWorker)
	order, err := db.CreateOrder(ctx, "R-1", "Client")
	require.NoError(t, err)

	_, err = db.CreateWorkLog(ctx, models.WorkLog{EmployeeID: emp.ID, OrderID: order.ID, WorkType: "Kesish", MetricAmount: 1, Rate: 2000, TotalAmount: 2000})
	require.NoError(t, err)
	stamp = now.AddDate(0, 0, -2)
	_, err = db.CreateWorkLog(ctx, models.WorkLog{EmployeeID: emp.ID, OrderID: order.ID, WorkType: "Sborka", MetricAmount: 2, Rate: 4000, TotalAmount: 8000})
	require.NoError(t, err)

	rows, err := svc.Report(ctx, now, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sborka", rows[0].WorkType)
	assert.Equal(t, "R-1", rows[0].OrderNumber)

	rows, err = svc.Report(ctx, now, 60)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
