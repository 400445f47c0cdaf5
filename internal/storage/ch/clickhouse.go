// Package ch mirrors work logs and payment status changes into ClickHouse.
package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pressly/goose/v3"

	"workshop/internal/models"
	"workshop/migrations"
)

// Options addresses a ClickHouse server
type Options struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	UseTLS   bool
}

func (o Options) clickhouse() *clickhouse.Options {
	options := &clickhouse.Options{
		Addr:     []string{fmt.Sprintf("%s:%d", o.Host, o.Port)},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: o.Database,
			Username: o.User,
			Password: o.Password,
		},
		DialTimeout: 10 * time.Second,
	}
	if o.UseTLS {
		options.TLS = &tls.Config{}
	}
	return options
}

// Ledger is an append-only event store implementing storage.Ledger
type Ledger struct {
	conn clickhouse.Conn
	now  func() time.Time
}

// NewLedger opens and pings a ClickHouse connection
func NewLedger(ctx context.Context, opts Options) (*Ledger, error) {
	conn, err := clickhouse.Open(opts.clickhouse())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Ledger{conn: conn, now: time.Now}, nil
}

// Migrate applies the embedded ClickHouse migrations through database/sql
func Migrate(ctx context.Context, opts Options) error {
	db := clickhouse.OpenDB(opts.clickhouse())
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("clickhouse"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrations.ClickHouseDir); err != nil {
		return fmt.Errorf("failed to run ledger migrations: %w", err)
	}
	return nil
}

// RecordWorkLog appends a work log event
func (l *Ledger) RecordWorkLog(ctx context.Context, log models.WorkLog) error {
	err := l.conn.Exec(ctx, `
		INSERT INTO work_log_events (id, employee_id, order_id, work_type, metric_amount, rate, total_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.EmployeeID, log.OrderID, log.WorkType, log.MetricAmount, log.Rate, log.TotalAmount, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record work log: %w", err)
	}
	return nil
}

// RecordPayment appends the current status of a payment
func (l *Ledger) RecordPayment(ctx context.Context, payment models.Payment) error {
	err := l.conn.Exec(ctx, `
		INSERT INTO payment_events (payment_id, employee_id, amount, currency, status, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.EmployeeID, payment.Amount, payment.Currency, string(payment.Status), l.now())
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

// EmployeeTotals sums work log events and the latest status of each payment
func (l *Ledger) EmployeeTotals(ctx context.Context, employeeID string) (models.EmployeeTotals, error) {
	totals := models.EmployeeTotals{EmployeeID: employeeID}

	err := l.conn.QueryRow(ctx,
		`SELECT sum(total_amount) FROM work_log_events WHERE employee_id = ?`, employeeID,
	).Scan(&totals.TotalEarned)
	if err != nil {
		return totals, fmt.Errorf("failed to sum work logs: %w", err)
	}

	err = l.conn.QueryRow(ctx, `
		SELECT
			sumIf(last_amount, last_status = 'approved'),
			sumIf(last_amount, last_status = 'pending')
		FROM (
			SELECT
				argMax(amount, recorded_at) AS last_amount,
				argMax(status, recorded_at) AS last_status
			FROM payment_events
			WHERE employee_id = ?
			GROUP BY payment_id
		)`, employeeID,
	).Scan(&totals.TotalPaid, &totals.TotalPending)
	if err != nil {
		return totals, fmt.Errorf("failed to sum payments: %w", err)
	}

	totals.Balance = totals.TotalEarned - totals.TotalPaid
	return totals, nil
}

// Close closes the database connection
func (l *Ledger) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
