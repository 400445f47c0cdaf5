package storage

import (
	"context"
	"errors"
	"time"

	"workshop/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("conflict")
)

// Storage defines the interface for data storage operations
type Storage interface {
	// Employee operations
	CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	GetEmployeeByTelegramID(ctx context.Context, telegramID int64) (*models.Employee, error)
	GetEmployeeByPhone(ctx context.Context, phone string) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	// AttachTelegramID links an employee created without a messaging identifier
	AttachTelegramID(ctx context.Context, employeeID string, telegramID int64) error
	// ActivateEmployee returns ErrNotFound when no pending employee has the telegram id
	ActivateEmployee(ctx context.Context, telegramID int64) error
	// DeletePendingEmployee removes an inactive employee; ErrNotFound when none matches
	DeletePendingEmployee(ctx context.Context, telegramID int64) error

	// Order operations
	CreateOrder(ctx context.Context, orderNumber, clientName string) (models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	// ListOrdersByStatus returns orders newest first
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	// UpdateOrderStatus moves an order from one status to another and reports whether a row changed
	UpdateOrderStatus(ctx context.Context, orderNumber string, from, to models.OrderStatus) (bool, error)

	// Work log operations
	CreateWorkLog(ctx context.Context, log models.WorkLog) (models.WorkLog, error)
	ListWorkLogReport(ctx context.Context, from, to time.Time) ([]models.WorkLogReportRow, error)

	// Payment operations
	CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// ApprovePayment transitions a pending payment to approved and reports whether a row changed
	ApprovePayment(ctx context.Context, id string, at time.Time) (bool, error)

	// GetSettings returns ErrNotFound when the settings row is missing
	GetSettings(ctx context.Context) (*models.Settings, error)

	EmployeeTotals(ctx context.Context, employeeID string) (models.EmployeeTotals, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

// Ledger is an append-only analytics mirror of work logs and payment status changes
type Ledger interface {
	RecordWorkLog(ctx context.Context, log models.WorkLog) error
	RecordPayment(ctx context.Context, payment models.Payment) error
	EmployeeTotals(ctx context.Context, employeeID string) (models.EmployeeTotals, error)
	Close() error
}
