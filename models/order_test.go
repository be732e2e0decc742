package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCompleted, true},
		{OrderStatusConfirmed, OrderStatusCompleted, true},
		{OrderStatusConfirmed, OrderStatusNew, false},
		{OrderStatusCompleted, OrderStatusNew, false},
		{OrderStatusCompleted, OrderStatusConfirmed, false},
		{OrderStatusCompleted, OrderStatusCompleted, false},
		{OrderStatusNew, OrderStatusNew, false},
		{"bogus", OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := ValidStatusTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderTotal(t *testing.T) {
	order := Order{
		Items: OrderLines{
			{ItemName: "Mojito", Price: 12, Quantity: 2},
			{ItemName: "Iced Tea", Price: 4.5, Quantity: 1},
		},
	}
	if got := order.Total(); got != 28.5 {
		t.Errorf("Total = %v, want 28.5", got)
	}

	var empty Order
	if got := empty.Total(); got != 0 {
		t.Errorf("empty order total = %v, want 0", got)
	}
}

func TestOrderJSONOmitsUnsetTimestamps(t *testing.T) {
	order := Order{Status: OrderStatusNew}

	data, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	body := string(data)
	if strings.Contains(body, "confirmedAt") || strings.Contains(body, "completedAt") {
		t.Errorf("unset transition timestamps must be omitted, got %s", body)
	}
	if !strings.Contains(body, `"status":"new"`) {
		t.Errorf("expected status field, got %s", body)
	}
}
