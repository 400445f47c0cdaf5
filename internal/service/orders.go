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

// MaxOrderNumberLen keeps order-selection payloads within Telegram's 64-byte callback limit
const MaxOrderNumberLen = 20

// OrderService manages the in_progress -> completed order lifecycle
type OrderService struct {
	deps Deps
}

// NewOrderService creates an order service
func NewOrderService(deps Deps) *OrderService {
	return &OrderService{deps: deps.withDefaults()}
}

// CreateOrder opens a new in-progress order. The pre-check gives a friendly
// error; the storage unique constraint remains authoritative.
func (s *OrderService) CreateOrder(ctx context.Context, orderNumber, clientName string) (models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	clientName = strings.TrimSpace(clientName)
	if orderNumber == "" || clientName == "" {
		return models.Order{}, fmt.Errorf("%w: order number and client name are required", ErrInvalidOrder)
	}
	if len(orderNumber) > MaxOrderNumberLen {
		return models.Order{}, fmt.Errorf("%w: order number is longer than %d bytes", ErrInvalidOrder, MaxOrderNumberLen)
	}

	checkCtx, cancel := s.deps.bounded(ctx)
	_, err := s.deps.Store.GetOrderByNumber(checkCtx, orderNumber)
	cancel()
	if err == nil {
		return models.Order{}, ErrOrderExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Order{}, fmt.Errorf("failed to check order: %w", err)
	}

	writeCtx, cancel := s.deps.bounded(ctx)
	defer cancel()
	order, err := s.deps.Store.CreateOrder(writeCtx, orderNumber, clientName)
	if errors.Is(err, storage.ErrConflict) {
		return models.Order{}, ErrOrderExists
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.deps.Logger.Info("Order created", zap.String("order_id", order.ID), zap.String("order_number", orderNumber))
	return order, nil
}

// ActiveOrders returns in-progress orders, newest first
func (s *OrderService) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := s.deps.bounded(ctx)
	defer cancel()

	orders, err := s.deps.Store.ListOrdersByStatus(ctx, models.OrderInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list active orders: %w", err)
	}
	return orders, nil
}

// CloseOrder completes an in-progress order and reports whether one was updated
func (s *OrderService) CloseOrder(ctx context.Context, orderNumber string) (bool, error) {
	ctx, cancel := s.deps.bounded(ctx)
	defer cancel()

	updated, err := s.deps.Store.UpdateOrderStatus(ctx, strings.TrimSpace(orderNumber), models.OrderInProgress, models.OrderCompleted)
	if err != nil {
		return false, fmt.Errorf("failed to close order: %w", err)
	}
	if updated {
		s.deps.Logger.Info("Order closed", zap.String("order_number", orderNumber))
	}
	return updated, nil
}
