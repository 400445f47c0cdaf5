package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_Lifecycle(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	svc := NewOrderService(deps)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, " A-17 ", "Karimov")
	require.NoError(t, err)
	assert.Equal(t, "A-17", order.OrderNumber)

	_, err = svc.CreateOrder(ctx, "A-17", "Someone else")
	assert.ErrorIs(t, err, ErrOrderExists)

	active, err := svc.ActiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	closed, err := svc.CloseOrder(ctx, "A-17")
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = svc.CloseOrder(ctx, "A-17")
	require.NoError(t, err)
	assert.False(t, closed, "closing twice is a no-op")

	active, err = svc.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.CreateOrder(ctx, "A-17", "Karimov")
	assert.ErrorIs(t, err, ErrOrderExists, "completed orders keep their number")
}

func TestOrderService_Validation(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	svc := NewOrderService(deps)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "", "Client")
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = svc.CreateOrder(ctx, "A-1", "  ")
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = svc.CreateOrder(ctx, strings.Repeat("9", MaxOrderNumberLen+1), "Client")
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = svc.CreateOrder(ctx, strings.Repeat("9", MaxOrderNumberLen), "Client")
	assert.NoError(t, err)
}
