package ch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"workshop/internal/models"
)

// setupTestLedger creates a test ClickHouse instance using testcontainers
func setupTestLedger(t *testing.T) *Ledger {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping ClickHouse integration test in short mode")
	}
	ctx := context.Background()

	container, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword("secret"),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	opts := Options{Host: host, Port: port.Int(), Database: "default", User: "default", Password: "secret"}
	require.NoError(t, Migrate(ctx, opts))

	ledger, err := NewLedger(ctx, opts)
	require.NoError(t, err, "Failed to connect to ClickHouse")
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestLedger_EmployeeTotals(t *testing.T) {
	ledger := setupTestLedger(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	ledger.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, ledger.RecordWorkLog(ctx, models.WorkLog{
		ID: "w1", EmployeeID: "e1", OrderID: "o1", WorkType: "Sborka",
		MetricAmount: 10, Rate: 4000, TotalAmount: 40000, CreatedAt: base,
	}))
	require.NoError(t, ledger.RecordWorkLog(ctx, models.WorkLog{
		ID: "w2", EmployeeID: "e2", OrderID: "o1", WorkType: "Pokraska",
		MetricAmount: 1, Rate: 25000, TotalAmount: 25000, CreatedAt: base,
	}))

	approved := models.Payment{ID: "p1", EmployeeID: "e1", Amount: 15000, Currency: "UZS", Status: models.PaymentApproved}
	pending := models.Payment{ID: "p2", EmployeeID: "e1", Amount: 5000, Currency: "UZS", Status: models.PaymentPending}
	require.NoError(t, ledger.RecordPayment(ctx, approved))
	require.NoError(t, ledger.RecordPayment(ctx, pending))

	totals, err := ledger.EmployeeTotals(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 40000.0, totals.TotalEarned)
	assert.Equal(t, 15000.0, totals.TotalPaid)
	assert.Equal(t, 5000.0, totals.TotalPending)
	assert.Equal(t, 25000.0, totals.Balance)

	// the latest event per payment wins
	pending.Status = models.PaymentApproved
	require.NoError(t, ledger.RecordPayment(ctx, pending))

	totals, err = ledger.EmployeeTotals(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 20000.0, totals.TotalPaid)
	assert.Zero(t, totals.TotalPending)
	assert.Equal(t, 20000.0, totals.Balance)

	empty, err := ledger.EmployeeTotals(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalEarned)
	assert.Zero(t, empty.Balance)
}
