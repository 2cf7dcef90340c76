package models

// Alert severities, highest first.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Navigation targets the presenting layer routes to.
const (
	TargetTransactions = "transactions"
	TargetAgenda       = "agenda"
	TargetDashboard    = "dashboard"
	TargetFiscal       = "fiscal"
)

// Alert is one actionable item shown on the dashboard, ordered by priority.
type Alert struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Target   string `json:"target"`
}
