package models

// ItemMismatch describes one quantity discrepancy for one menu item.
type ItemMismatch struct {
	Item             MenuItem `json:"item"`
	ExpectedQuantity int      `json:"expected_quantity"`
	DetectedQuantity int      `json:"detected_quantity"`
}

// ItemMatch is emitted for every expected line, matched or not.
type ItemMatch struct {
	Item             MenuItem `json:"item"`
	ExpectedQuantity int      `json:"expected_quantity"`
	DetectedQuantity int      `json:"detected_quantity"`
	IsMatch          bool     `json:"is_match"`
}

// ComparisonResult is the structured diff between an expected and a
// detected order. It is built once per comparison and never mutated.
type ComparisonResult struct {
	IsComplete   bool           `json:"is_complete"`
	MissingItems []ItemMismatch `json:"missing_items"`
	TooFewItems  []ItemMismatch `json:"too_few_items"`
	TooManyItems []ItemMismatch `json:"too_many_items"`
	ExtraItems   []OrderItem    `json:"extra_items"`
	MatchedItems []ItemMatch    `json:"matched_items"`
}
