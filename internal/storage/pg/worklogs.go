package pg

import (
	"context"
	"fmt"
	"time"

	"workshop/internal/models"
)

// CreateWorkLog inserts a work log with its rate snapshot
func (db *PostgresDB) CreateWorkLog(ctx context.Context, log models.WorkLog) (models.WorkLog, error) {
	err := db.pool.QueryRow(ctx, `
		INSERT INTO work_logs (employee_id, order_id, work_type, metric_amount, rate, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at`,
		log.EmployeeID, log.OrderID, log.WorkType, log.MetricAmount, log.Rate, log.TotalAmount,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return models.WorkLog{}, fmt.Errorf("failed to create work log: %w", mapError(err))
	}
	return log, nil
}

// ListWorkLogReport returns work logs created in [from, to), oldest first
func (db *PostgresDB) ListWorkLogReport(ctx context.Context, from, to time.Time) ([]models.WorkLogReportRow, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT w.created_at, e.full_name, o.order_number, w.work_type,
		       w.metric_amount::float8, w.rate::float8, w.total_amount::float8
		FROM work_logs w
		JOIN employees e ON e.id = w.employee_id
		JOIN orders o ON o.id = w.order_id
		WHERE w.created_at >= $1 AND w.created_at < $2
		ORDER BY w.created_at`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query work log report: %w", err)
	}
	defer rows.Close()

	var report []models.WorkLogReportRow
	for rows.Next() {
		var r models.WorkLogReportRow
		if err := rows.Scan(&r.CreatedAt, &r.EmployeeName, &r.OrderNumber, &r.WorkType,
			&r.MetricAmount, &r.Rate, &r.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan work log: %w", err)
		}
		report = append(report, r)
	}
	return report, rows.Err()
}
