package domain

// DashboardStats is the per-user activity summary behind the dashboard.
type DashboardStats struct {
	TotalAnalyses      int            `json:"total_analyses"`
	TotalImageScans    int            `json:"total_image_scans"`
	TotalAssistantMsgs int            `json:"total_assistant_messages"`
	SemaforoCounts     map[string]int `json:"semaforo_counts"`
	RecentAnalyses     []Analysis     `json:"recent_analyses"`
	Quota              Quota          `json:"quota"`
	Plan               string         `json:"plan"`
}

// AdminOverview is the service-wide back-office summary.
type AdminOverview struct {
	TotalUsers        int            `json:"total_users"`
	TotalAnalyses     int            `json:"total_analyses"`
	TotalTransactions int            `json:"total_transactions"`
	SemaforoCounts    map[string]int `json:"semaforo_counts"`
	RecentSignups     []User         `json:"recent_signups"`
}

// AdminUserPatch is an admin edit of another account. Nil fields are
// left untouched.
type AdminUserPatch struct {
	Plan  *string `json:"plan,omitempty"`
	Quota *Quota  `json:"quota,omitempty"`
}

func (p AdminUserPatch) Empty() bool {
	return p.Plan == nil && p.Quota == nil
}
