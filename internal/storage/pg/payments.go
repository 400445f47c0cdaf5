package pg

import (
	"context"
	"fmt"
	"time"

	"workshop/internal/models"
	"workshop/internal/storage"
)

const paymentColumns = `id::text, employee_id::text, amount::float8, currency, description, created_by::text, status, created_at, approved_at`

// CreatePayment inserts a payment with its decided status in one write
func (db *PostgresDB) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	err := db.pool.QueryRow(ctx, `
		INSERT INTO payments (employee_id, amount, currency, description, created_by, status, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6::text, CASE WHEN $6::text = 'approved' THEN now() END)
		RETURNING id::text, created_at, approved_at`,
		p.EmployeeID, p.Amount, p.Currency, p.Description, p.CreatedBy, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt, &p.ApprovedAt)
	if err != nil {
		return models.Payment{}, fmt.Errorf("failed to create payment: %w", mapError(err))
	}
	return p, nil
}

// GetPayment returns a payment by id
func (db *PostgresDB) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	if !validID(id) {
		return nil, storage.ErrNotFound
	}
	var p models.Payment
	err := db.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id).Scan(
		&p.ID, &p.EmployeeID, &p.Amount, &p.Currency, &p.Description, &p.CreatedBy, &p.Status, &p.CreatedAt, &p.ApprovedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// ApprovePayment transitions a pending payment to approved
func (db *PostgresDB) ApprovePayment(ctx context.Context, id string, at time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE payments SET status = 'approved', approved_at = $2 WHERE id = $1 AND status = 'pending'`,
		id, at)
	if err != nil {
		return false, fmt.Errorf("failed to approve payment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetSettings returns the settings singleton; a missing row is ErrNotFound
func (db *PostgresDB) GetSettings(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := db.pool.QueryRow(ctx,
		`SELECT auto_approve_limit::float8 FROM system_settings WHERE id = 1`).Scan(&s.AutoApproveLimit)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

// EmployeeTotals sums work logs and payments for an employee
func (db *PostgresDB) EmployeeTotals(ctx context.Context, employeeID string) (models.EmployeeTotals, error) {
	totals := models.EmployeeTotals{EmployeeID: employeeID}
	if !validID(employeeID) {
		return totals, nil
	}
	err := db.pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(total_amount) FROM work_logs WHERE employee_id = $1), 0)::float8,
			COALESCE((SELECT SUM(amount) FROM payments WHERE employee_id = $1 AND status = 'approved'), 0)::float8,
			COALESCE((SELECT SUM(amount) FROM payments WHERE employee_id = $1 AND status = 'pending'), 0)::float8`,
		employeeID,
	).Scan(&totals.TotalEarned, &totals.TotalPaid, &totals.TotalPending)
	if err != nil {
		return totals, fmt.Errorf("failed to compute totals: %w", err)
	}
	totals.Balance = totals.TotalEarned - totals.TotalPaid
	return totals, nil
}
