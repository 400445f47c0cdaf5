package stubs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"workshop/internal/models"
	"workshop/internal/storage"
)

// DefaultAutoApproveLimit is the limit seeded by Initialize
const DefaultAutoApproveLimit = 100000

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu        sync.RWMutex
	employees map[string]models.Employee
	orders    map[string]models.Order
	workLogs  []models.WorkLog
	payments  map[string]models.Payment
	settings  *models.Settings
	failures  map[string]error
	now       func() time.Time
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		employees: make(map[string]models.Employee),
		orders:    make(map[string]models.Order),
		workLogs:  make([]models.WorkLog, 0),
		payments:  make(map[string]models.Payment),
		failures:  make(map[string]error),
		now:       time.Now,
	}
}

// Initialize seeds the settings singleton
func (m *MockDB) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		m.settings = &models.Settings{AutoApproveLimit: DefaultAutoApproveLimit}
	}
	return nil
}

// SetSettings replaces the settings row; nil removes it
func (m *MockDB) SetSettings(settings *models.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

// SetClock overrides the time source used for created_at stamps
func (m *MockDB) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// FailOn makes the named operation (e.g. "CreateWorkLog") return err until cleared with a nil err
func (m *MockDB) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MockDB) fail(op string) error {
	return m.failures[op]
}

// CreateEmployee stores an employee, enforcing unique phone and telegram id
func (m *MockDB) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("CreateEmployee"); err != nil {
		return models.Employee{}, err
	}
	for _, e := range m.employees {
		if e.Phone == employee.Phone {
			return models.Employee{}, storage.ErrConflict
		}
		if employee.TelegramID != 0 && e.TelegramID == employee.TelegramID {
			return models.Employee{}, storage.ErrConflict
		}
	}

	employee.ID = uuid.NewString()
	if employee.Role == "" {
		employee.Role = models.RoleWorker
	}
	employee.CreatedAt = m.now()
	m.employees[employee.ID] = employee
	return employee, nil
}

// GetEmployee returns an employee by internal id
func (m *MockDB) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("GetEmployee"); err != nil {
		return nil, err
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

// GetEmployeeByTelegramID returns an employee by messaging identifier
func (m *MockDB) GetEmployeeByTelegramID(ctx context.Context, telegramID int64) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("GetEmployeeByTelegramID"); err != nil {
		return nil, err
	}
	for _, e := range m.employees {
		if e.TelegramID == telegramID {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetEmployeeByPhone returns an employee by phone number
func (m *MockDB) GetEmployeeByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.employees {
		if e.Phone == phone {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListEmployees returns all employees, newest first
func (m *MockDB) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	employees := make([]models.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		employees = append(employees, e)
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].CreatedAt.After(employees[j].CreatedAt)
	})
	return employees, nil
}

// AttachTelegramID sets the telegram id of an employee that has none
func (m *MockDB) AttachTelegramID(ctx context.Context, employeeID string, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[employeeID]
	if !ok || e.TelegramID != 0 {
		return storage.ErrNotFound
	}
	for _, other := range m.employees {
		if other.TelegramID == telegramID {
			return storage.ErrConflict
		}
	}
	e.TelegramID = telegramID
	m.employees[employeeID] = e
	return nil
}

// ActivateEmployee marks the pending employee with the telegram id as active
func (m *MockDB) ActivateEmployee(ctx context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("ActivateEmployee"); err != nil {
		return err
	}
	for id, e := range m.employees {
		if e.TelegramID == telegramID && !e.IsActive {
			e.IsActive = true
			m.employees[id] = e
			return nil
		}
	}
	return storage.ErrNotFound
}

// DeletePendingEmployee removes an inactive employee
func (m *MockDB) DeletePendingEmployee(ctx context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("DeletePendingEmployee"); err != nil {
		return err
	}
	for id, e := range m.employees {
		if e.TelegramID == telegramID && !e.IsActive {
			delete(m.employees, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

// CreateOrder stores a new in-progress order
func (m *MockDB) CreateOrder(ctx context.Context, orderNumber, clientName string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("CreateOrder"); err != nil {
		return models.Order{}, err
	}
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return models.Order{}, storage.ErrConflict
		}
	}

	order := models.Order{
		ID:          uuid.NewString(),
		OrderNumber: orderNumber,
		ClientName:  clientName,
		Status:      models.OrderInProgress,
		CreatedAt:   m.now(),
	}
	m.orders[order.ID] = order
	return order, nil
}

// GetOrderByNumber returns an order by its human-assigned number
func (m *MockDB) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return &o, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListOrdersByStatus returns orders with the status, newest first
func (m *MockDB) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("ListOrdersByStatus"); err != nil {
		return nil, err
	}
	var orders []models.Order
	for _, o := range m.orders {
		if o.Status == status {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateOrderStatus moves an order between statuses
func (m *MockDB) UpdateOrderStatus(ctx context.Context, orderNumber string, from, to models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("UpdateOrderStatus"); err != nil {
		return false, err
	}
	for id, o := range m.orders {
		if o.OrderNumber == orderNumber && o.Status == from {
			o.Status = to
			m.orders[id] = o
			return true, nil
		}
	}
	return false, nil
}

// CreateWorkLog appends a work log entry
func (m *MockDB) CreateWorkLog(ctx context.Context, log models.WorkLog) (models.WorkLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("CreateWorkLog"); err != nil {
		return models.WorkLog{}, err
	}
	log.ID = uuid.NewString()
	log.CreatedAt = m.now()
	m.workLogs = append(m.workLogs, log)
	return log, nil
}

// WorkLogs returns a copy of all stored work logs
func (m *MockDB) WorkLogs() []models.WorkLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]models.WorkLog, len(m.workLogs))
	copy(logs, m.workLogs)
	return logs
}

// ListWorkLogReport returns work logs created in [from, to), oldest first
func (m *MockDB) ListWorkLogReport(ctx context.Context, from, to time.Time) ([]models.WorkLogReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []models.WorkLogReportRow
	for _, l := range m.workLogs {
		if l.CreatedAt.Before(from) || !l.CreatedAt.Before(to) {
			continue
		}
		rows = append(rows, models.WorkLogReportRow{
			CreatedAt:    l.CreatedAt,
			EmployeeName: m.employees[l.EmployeeID].FullName,
			OrderNumber:  m.orders[l.OrderID].OrderNumber,
			WorkType:     l.WorkType,
			MetricAmount: l.MetricAmount,
			Rate:         l.Rate,
			TotalAmount:  l.TotalAmount,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows, nil
}

// CreatePayment stores a payment with the status already decided
func (m *MockDB) CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("CreatePayment"); err != nil {
		return models.Payment{}, err
	}
	payment.ID = uuid.NewString()
	payment.CreatedAt = m.now()
	if payment.Status == models.PaymentApproved {
		at := payment.CreatedAt
		payment.ApprovedAt = &at
	}
	m.payments[payment.ID] = payment
	return payment, nil
}

// GetPayment returns a payment by id
func (m *MockDB) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

// Payments returns a copy of all stored payments
func (m *MockDB) Payments() []models.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := make([]models.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		payments = append(payments, p)
	}
	return payments
}

// ApprovePayment transitions a pending payment to approved
func (m *MockDB) ApprovePayment(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok || p.Status != models.PaymentPending {
		return false, nil
	}
	p.Status = models.PaymentApproved
	p.ApprovedAt = &at
	m.payments[id] = p
	return true, nil
}

// GetSettings returns the settings singleton
func (m *MockDB) GetSettings(ctx context.Context) (*models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("GetSettings"); err != nil {
		return nil, err
	}
	if m.settings == nil {
		return nil, storage.ErrNotFound
	}
	s := *m.settings
	return &s, nil
}

// EmployeeTotals sums work logs and payments for an employee
func (m *MockDB) EmployeeTotals(ctx context.Context, employeeID string) (models.EmployeeTotals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totals := models.EmployeeTotals{EmployeeID: employeeID}
	for _, l := range m.workLogs {
		if l.EmployeeID == employeeID {
			totals.TotalEarned += l.TotalAmount
		}
	}
	for _, p := range m.payments {
		if p.EmployeeID != employeeID {
			continue
		}
		switch p.Status {
		case models.PaymentApproved:
			totals.TotalPaid += p.Amount
		case models.PaymentPending:
			totals.TotalPending += p.Amount
		}
	}
	totals.Balance = totals.TotalEarned - totals.TotalPaid
	return totals, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}
