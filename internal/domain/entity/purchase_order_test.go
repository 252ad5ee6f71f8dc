package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

func TestPurchaseOrderStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.PurchaseOrderStatus
		ok       bool
	}{
		{entity.PurchaseOrderStatusPending, entity.PurchaseOrderStatusApproved, true},
		{entity.PurchaseOrderStatusPending, entity.PurchaseOrderStatusCancelled, true},
		{entity.PurchaseOrderStatusApproved, entity.PurchaseOrderStatusCompleted, true},
		{entity.PurchaseOrderStatusPending, entity.PurchaseOrderStatusCompleted, false},
		{entity.PurchaseOrderStatusApproved, entity.PurchaseOrderStatusCancelled, false},
		{entity.PurchaseOrderStatusCompleted, entity.PurchaseOrderStatusCancelled, false},
		{entity.PurchaseOrderStatusCancelled, entity.PurchaseOrderStatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestPurchaseOrderStatus_TerminalYReceive(t *testing.T) {
	assert.False(t, entity.PurchaseOrderStatusPending.IsTerminal())
	assert.False(t, entity.PurchaseOrderStatusApproved.IsTerminal())
	assert.True(t, entity.PurchaseOrderStatusCompleted.IsTerminal())
	assert.True(t, entity.PurchaseOrderStatusCancelled.IsTerminal())

	assert.True(t, entity.PurchaseOrderStatusApproved.CanReceive())
	assert.False(t, entity.PurchaseOrderStatusPending.CanReceive(),
		"una orden no aprobada no puede recibirse")
	assert.False(t, entity.PurchaseOrderStatusCompleted.CanReceive())
}

func TestPurchaseOrder_PendingItems(t *testing.T) {
	order := &entity.PurchaseOrder{
		Items: []entity.PurchaseOrderItem{
			{ID: "a", Received: true},
			{ID: "b"},
			{ID: "c"},
		},
	}
	pending := order.PendingItems()
	assert.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].ID)
	assert.Equal(t, "c", pending[1].ID)
}
