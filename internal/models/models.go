package models

import "time"

// Role is the coarse access attribute of an employee
type Role string

const (
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
)

// PaymentStatus is decided once when a payment is created
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
)

// Employee represents a worker or admin of the workshop
type Employee struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id,omitempty"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Role       Role      `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Order represents a furniture order that work is logged against
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	ClientName  string      `json:"client_name"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// WorkLog is a piecework entry. Rate is a snapshot taken at write time.
type WorkLog struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	OrderID      string    `json:"order_id"`
	WorkType     string    `json:"work_type"`
	MetricAmount float64   `json:"metric_amount"`
	Rate         float64   `json:"rate"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// Payment is money recorded for an employee
type Payment struct {
	ID          string        `json:"id"`
	EmployeeID  string        `json:"employee_id"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	Description string        `json:"description,omitempty"`
	CreatedBy   string        `json:"created_by"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ApprovedAt  *time.Time    `json:"approved_at,omitempty"`
}

// Settings is the system-wide singleton
type Settings struct {
	AutoApproveLimit float64 `json:"auto_approve_limit"`
}

// EmployeeTotals aggregates earnings and payments for the dashboard
type EmployeeTotals struct {
	EmployeeID   string  `json:"employee_id"`
	TotalEarned  float64 `json:"total_earned"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
	Balance      float64 `json:"balance"`
}

// WorkLogReportRow is a work log joined with display fields for exports
type WorkLogReportRow struct {
	CreatedAt    time.Time
	EmployeeName string
	OrderNumber  string
	WorkType     string
	MetricAmount float64
	Rate         float64
	TotalAmount  float64
}
