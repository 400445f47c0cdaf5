package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/storage"
)

// Registration is a contact shared by a user who wants to join
type Registration struct {
	TelegramID    int64 // sender of the contact
	ContactUserID int64 // user the shared contact belongs to
	FirstName     string
	LastName      string
	Phone         string
}

// EmployeeService drives onboarding: contact -> pending -> approved or rejected
type EmployeeService struct {
	deps    Deps
	adminID int64
}

// NewEmployeeService creates an employee service. adminID is the only super-admin.
func NewEmployeeService(deps Deps, adminID int64) *EmployeeService {
	return &EmployeeService{deps: deps.withDefaults(), adminID: adminID}
}

// IsSuperAdmin reports whether telegramID is the configured super-admin
func (s *EmployeeService) IsSuperAdmin(telegramID int64) bool {
	return s.adminID != 0 && telegramID == s.adminID
}

// NormalizePhone guarantees a leading '+'
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}

// FullName joins whichever name parts are present
func FullName(first, last string) string {
	var parts []string
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ByTelegramID returns the employee for a messaging identifier
func (s *EmployeeService) ByTelegramID(ctx context.Context, telegramID int64) (*models.Employee, error) {
	ctx, cancel := s.deps.bounded(ctx)
	defer cancel()

	employee, err := s.deps.Store.GetEmployeeByTelegramID(ctx, telegramID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// List returns all employees, newest first
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	ctx, cancel := s.deps.bounded(ctx)
	defer cancel()

	employees, err := s.deps.Store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Register creates a pending employee from a shared contact and asks the admin
// to decide. A phone already added by an admin is linked to the sender instead,
// keeping its active state.
func (s *EmployeeService) Register(ctx context.Context, r Registration) (models.Employee, error) {
	if r.ContactUserID != r.TelegramID {
		return models.Employee{}, ErrContactMismatch
	}

	_, err := s.ByTelegramID(ctx, r.TelegramID)
	if err == nil {
		return models.Employee{}, ErrAlreadyRegistered
	}
	if !errors.Is(err, ErrEmployeeNotFound) {
		return models.Employee{}, err
	}

	phone := NormalizePhone(r.Phone)
	if linked, ok, err := s.linkExisting(ctx, phone, r.TelegramID); err != nil || ok {
		return linked, err
	}

	name := FullName(r.FirstName, r.LastName)
	if name == "" {
		name = phone
	}

	writeCtx, cancel := s.deps.bounded(ctx)
	employee, err := s.deps.Store.CreateEmployee(writeCtx, models.Employee{
		TelegramID: r.TelegramID,
		FullName:   name,
		Phone:      phone,
		Role:       models.RoleWorker,
		IsActive:   false,
	})
	cancel()
	if errors.Is(err, storage.ErrConflict) {
		return models.Employee{}, ErrAlreadyRegistered
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.deps.Logger.Info("Registration request created",
		zap.String("employee_id", employee.ID),
		zap.Int64("user_id", r.TelegramID),
	)

	if s.deps.Notifier != nil && s.adminID != 0 {
		notifyCtx, cancel := s.deps.bounded(ctx)
		if err := s.deps.Notifier.RequestApproval(notifyCtx, s.adminID, employee); err != nil {
			s.deps.Logger.Warn("Failed to send approval request", zap.Int64("user_id", r.TelegramID), zap.Error(err))
		}
		cancel()
	}
	return employee, nil
}

func (s *EmployeeService) linkExisting(ctx context.Context, phone string, telegramID int64) (models.Employee, bool, error) {
	lookupCtx, cancel := s.deps.bounded(ctx)
	existing, err := s.deps.Store.GetEmployeeByPhone(lookupCtx, phone)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return models.Employee{}, false, nil
	}
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to check phone: %w", err)
	}
	if existing.TelegramID != 0 {
		return models.Employee{}, false, ErrPhoneTaken
	}

	writeCtx, cancel := s.deps.bounded(ctx)
	defer cancel()
	if err := s.deps.Store.AttachTelegramID(writeCtx, existing.ID, telegramID); err != nil {
		if errors.Is(err, storage.ErrConflict) || errors.Is(err, storage.ErrNotFound) {
			return models.Employee{}, false, ErrAlreadyRegistered
		}
		return models.Employee{}, false, fmt.Errorf("failed to link employee: %w", err)
	}
	existing.TelegramID = telegramID

	s.deps.Logger.Info("Linked telegram account to employee",
		zap.String("employee_id", existing.ID),
		zap.Int64("user_id", telegramID),
	)
	return *existing, true, nil
}

// Approve activates a pending employee and tells them. On failure nothing is sent.
func (s *EmployeeService) Approve(ctx context.Context, telegramID int64) error {
	writeCtx, cancel := s.deps.bounded(ctx)
	err := s.deps.Store.ActivateEmployee(writeCtx, telegramID)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to activate employee: %w", err)
	}

	s.deps.Logger.Info("Employee approved", zap.Int64("user_id", telegramID))
	s.deps.notify(ctx, telegramID, "✅ Your registration was approved. Send /start to begin.")
	return nil
}

// Reject deletes a pending employee and tells them
func (s *EmployeeService) Reject(ctx context.Context, telegramID int64) error {
	writeCtx, cancel := s.deps.bounded(ctx)
	err := s.deps.Store.DeletePendingEmployee(writeCtx, telegramID)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.deps.Logger.Info("Employee rejected", zap.Int64("user_id", telegramID))
	s.deps.notify(ctx, telegramID, "❌ Your registration was rejected.")
	return nil
}

// CreateEmployee adds an active employee directly, as an admin does
func (s *EmployeeService) CreateEmployee(ctx context.Context, fullName, phone string, role models.Role) (models.Employee, error) {
	fullName = strings.TrimSpace(fullName)
	phone = NormalizePhone(phone)
	if fullName == "" || phone == "" {
		return models.Employee{}, fmt.Errorf("full name and phone are required")
	}
	if role == "" {
		role = models.RoleWorker
	}

	checkCtx, cancel := s.deps.bounded(ctx)
	_, err := s.deps.Store.GetEmployeeByPhone(checkCtx, phone)
	cancel()
	if err == nil {
		return models.Employee{}, ErrPhoneTaken
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Employee{}, fmt.Errorf("failed to check phone: %w", err)
	}

	writeCtx, cancel := s.deps.bounded(ctx)
	defer cancel()
	employee, err := s.deps.Store.CreateEmployee(writeCtx, models.Employee{
		FullName: fullName,
		Phone:    phone,
		Role:     role,
		IsActive: true,
	})
	if errors.Is(err, storage.ErrConflict) {
		return models.Employee{}, ErrPhoneTaken
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.deps.Logger.Info("Employee created by admin", zap.String("employee_id", employee.ID))
	return employee, nil
}
