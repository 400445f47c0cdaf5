// Package pg implements storage.Storage on PostgreSQL.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"workshop/internal/models"
	"workshop/internal/storage"
	"workshop/migrations"
)

// uniqueViolation is the SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

// PostgresDB is a pgx-pool backed Storage
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgresDB connects to PostgreSQL
func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrations.PostgresDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Initialize checks that the schema is reachable; tables are managed via migrations
func (db *PostgresDB) Initialize(ctx context.Context) error {
	var exists bool
	err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM system_settings WHERE id = 1)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("schema check failed (are migrations applied?): %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.ErrConflict
	}
	return err
}

// validID reports whether id can address a UUID primary key
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullableTelegramID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

const employeeColumns = `id::text, telegram_id, full_name, phone, role, is_active, created_at`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var (
		e          models.Employee
		telegramID *int64
	)
	if err := row.Scan(&e.ID, &telegramID, &e.FullName, &e.Phone, &e.Role, &e.IsActive, &e.CreatedAt); err != nil {
		return nil, err
	}
	if telegramID != nil {
		e.TelegramID = *telegramID
	}
	return &e, nil
}

// CreateEmployee inserts an employee; duplicate phone or telegram id is ErrConflict
func (db *PostgresDB) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.Role == "" {
		employee.Role = models.RoleWorker
	}
	err := db.pool.QueryRow(ctx, `
		INSERT INTO employees (telegram_id, full_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at`,
		nullableTelegramID(employee.TelegramID), employee.FullName, employee.Phone, employee.Role, employee.IsActive,
	).Scan(&employee.ID, &employee.CreatedAt)
	if err != nil {
		return models.Employee{}, mapError(err)
	}
	return employee, nil
}

// GetEmployee returns an employee by internal id
func (db *PostgresDB) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if !validID(id) {
		return nil, storage.ErrNotFound
	}
	e, err := scanEmployee(db.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// GetEmployeeByTelegramID returns an employee by messaging identifier
func (db *PostgresDB) GetEmployeeByTelegramID(ctx context.Context, telegramID int64) (*models.Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE telegram_id = $1`, telegramID))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// GetEmployeeByPhone returns an employee by phone number
func (db *PostgresDB) GetEmployeeByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	e, err := scanEmployee(db.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE phone = $1`, phone))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// ListEmployees returns all employees, newest first
func (db *PostgresDB) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// AttachTelegramID links an employee that has no telegram id yet
func (db *PostgresDB) AttachTelegramID(ctx context.Context, employeeID string, telegramID int64) error {
	if !validID(employeeID) {
		return storage.ErrNotFound
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE employees SET telegram_id = $2 WHERE id = $1 AND telegram_id IS NULL`,
		employeeID, telegramID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ActivateEmployee marks the pending employee with the telegram id as active
func (db *PostgresDB) ActivateEmployee(ctx context.Context, telegramID int64) error {
	tag, err := db.pool.Exec(ctx, `UPDATE employees SET is_active = TRUE WHERE telegram_id = $1 AND NOT is_active`, telegramID)
	if err != nil {
		return fmt.Errorf("failed to activate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeletePendingEmployee removes an employee that was never activated
func (db *PostgresDB) DeletePendingEmployee(ctx context.Context, telegramID int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM employees WHERE telegram_id = $1 AND NOT is_active`, telegramID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
