package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workshop/internal/models"
	"workshop/internal/storage/stubs"
)

type sentMessage struct {
	TelegramID int64
	Text       string
}

type fakeNotifier struct {
	mu        sync.Mutex
	messages  []sentMessage
	approvals []models.Employee
	err       error
}

func (n *fakeNotifier) Notify(ctx context.Context, telegramID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sentMessage{TelegramID: telegramID, Text: text})
	return n.err
}

func (n *fakeNotifier) RequestApproval(ctx context.Context, adminID int64, employee models.Employee) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvals = append(n.approvals, employee)
	return n.err
}

func (n *fakeNotifier) sent() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.messages...)
}

func newTestDeps(t *testing.T) (Deps, *stubs.MockDB, *fakeNotifier) {
	t.Helper()
	db := stubs.NewMockDB()
	require.NoError(t, db.Initialize(context.Background()))
	notifier := &fakeNotifier{}
	return Deps{Store: db, Notifier: notifier, Logger: zap.NewNop()}, db, notifier
}

func addEmployee(t *testing.T, db *stubs.MockDB, telegramID int64, phone string, role models.Role) models.Employee {
	t.Helper()
	e, err := db.CreateEmployee(context.Background(), models.Employee{
		TelegramID: telegramID,
		FullName:   "Worker " + phone,
		Phone:      phone,
		Role:       role,
		IsActive:   true,
	})
	require.NoError(t, err)
	return e
}
