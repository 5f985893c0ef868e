package models

// AlertSeverity classifies how urgent an alert is.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Alert is a threshold or trend finding shown on the dashboard.
// Alerts are ephemeral: regenerated on every refresh, never stored.
type Alert struct {
	Severity AlertSeverity `json:"severity"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Emoji    string        `json:"emoji"`
}
