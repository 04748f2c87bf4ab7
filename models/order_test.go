package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, s)

	_, err = ParseOrderStatus("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusCompleted, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusCancelled, OrderStatusCancelled, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestOrderJSONShape(t *testing.T) {
	order := Order{
		ID:          7,
		OrderNumber: "ORD1",
		Contact:     Contact{Name: "Yoru", Email: "y@example.com", Phone: "0612345678"},
		Delivery:    Delivery{Method: "express", Cost: decimal.RequireFromString("4.95")},
		Subtotal:    decimal.RequireFromString("80.00"),
		Total:       decimal.RequireFromString("84.95"),
		Status:      OrderStatusConfirmed,
	}

	raw, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 84.95, decoded["total"])
	assert.Equal(t, "Yoru", decoded["contact"].(map[string]any)["fullName"])
	assert.Equal(t, 4.95, decoded["delivery"].(map[string]any)["cost"])
	assert.NotContains(t, decoded, "userId")
}
