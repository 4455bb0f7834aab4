package dto

// TrendEntry aggregates events for one hour of day ("00".."23") within the
// trailing day window.
type TrendEntry struct {
	Hour     string `json:"hour"`
	Total    int    `json:"total"`
	NoHelmet int    `json:"no_helmet"`
}

// DashboardStats is the dashboard payload computed over the trailing week
// (totals, ratio, confidence, composition) and trailing day (trend).
type DashboardStats struct {
	TotalEvents       int                `json:"total_events"`
	NoHelmetRatio     float64            `json:"no_helmet_ratio"`
	AverageConfidence float64            `json:"average_confidence"`
	Trend             []TrendEntry       `json:"trend"`
	Composition       map[string]float64 `json:"composition"`
	RecentEvents      []EventRecord      `json:"recent_events"`
}
