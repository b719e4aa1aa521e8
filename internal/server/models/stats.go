package models

// DashboardStats are the headline counters shown on the dashboard.
type DashboardStats struct {
	IncomingTotal int64 `json:"incomingTotal"`
	OutgoingTotal int64 `json:"outgoingTotal"`
	ArchivedTotal int64 `json:"archivedTotal"`
	PendingTotal  int64 `json:"pendingTotal"`
}
