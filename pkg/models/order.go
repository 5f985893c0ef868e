package models

import (
	"encoding/json"
	"fmt"
)

// OrderItem is one line of an order: a menu item and its quantity.
// Raw detection output may carry zero or negative quantities; those are
// filtered out before comparison, not rejected at parse time.
type OrderItem struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// String returns the "2x Boite de 4 Gyoza" form used in exports and prompts.
func (i OrderItem) String() string {
	return fmt.Sprintf("%dx %s", i.Quantity, i.Item)
}

// Order is a complete order, decoded from a QR code (expected) or built
// from AI detection output (detected).
type Order struct {
	OrderID string      `json:"order_id"`
	Source  OrderSource `json:"source"`
	Items   []OrderItem `json:"items"`
}

// TotalItems returns the total quantity across all lines.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Validate checks the structural invariants of an order: a non-empty
// identifier, a known source platform, at least one line and only
// catalog items. Quantities are not checked here.
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("order_id is required")
	}
	if !o.Source.IsValid() {
		return fmt.Errorf("unknown order source: %q", o.Source)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for _, item := range o.Items {
		if !item.Item.IsValid() {
			return fmt.Errorf("unknown menu item: %q", item.Item)
		}
	}
	return nil
}

// ParseOrderJSON decodes and validates the QR/AI order payload.
func ParseOrderJSON(data []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("invalid order JSON: %w", err)
	}
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	return &order, nil
}
