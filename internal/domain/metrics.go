package domain

// SLAMetrics are the headline KPIs computed over a region-scoped
// escalation set.
type SLAMetrics struct {
	Total              int     `json:"total"`
	Open               int     `json:"open"`
	ResolvedThisMonth  int     `json:"resolved_this_month"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}
