package models

// ForgottenItem is one row of the forgetfulness ranking.
type ForgottenItem struct {
	Item  MenuItem `json:"item"`
	Count int      `json:"count"`
}

// Statistics is the rollup derived from a set of validation records.
// It is recomputed on demand and never persisted as authoritative state.
type Statistics struct {
	TotalOrders        int             `json:"total_orders"`
	CompleteOrders     int             `json:"complete_orders"`
	ErrorRate          float64         `json:"error_rate"`
	MostForgottenItems []ForgottenItem `json:"most_forgotten_items"`
	ErrorsByHour       map[int]int     `json:"errors_by_hour"`
	ErrorsByDay        map[string]int  `json:"errors_by_day"`
}

// GroupedStatistics partitions the record set and aggregates each bucket.
type GroupedStatistics struct {
	GroupBy string                 `json:"group_by"`
	Groups  map[string]*Statistics `json:"groups"`
}
