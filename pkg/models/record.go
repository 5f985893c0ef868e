package models

import "time"

// ValidationRecord is one validation event as stored in the history.
// Records are append-only: created once per validation, never updated.
type ValidationRecord struct {
	ID               *int64           `json:"id"`
	OrderID          string           `json:"order_id"`
	Timestamp        time.Time        `json:"timestamp"`
	Operator         *string          `json:"operator"`
	IsComplete       bool             `json:"is_complete"`
	ExpectedOrder    Order            `json:"expected_order"`
	DetectedOrder    Order            `json:"detected_order"`
	ComparisonResult ComparisonResult `json:"comparison_result"`
}
