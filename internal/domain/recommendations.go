package domain

// Recommendation is a single suggested action written by the daily job
type Recommendation struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Action      string         `json:"action,omitempty"`
	Impact      string         `json:"impact,omitempty"`
	Extra       map[string]any `json:"-"`
}

// RecommendationSet keeps the file's insertion order within each bucket
type RecommendationSet struct {
	Critical      []Recommendation `json:"critical"`
	High          []Recommendation `json:"high"`
	Medium        []Recommendation `json:"medium"`
	Optimizations []Recommendation `json:"optimizations"`
}

// NewRecommendationSet normalizes nil buckets to empty slices
func NewRecommendationSet(critical, high, medium, optimizations []Recommendation) RecommendationSet {
	return RecommendationSet{
		Critical:      nonNil(critical),
		High:          nonNil(high),
		Medium:        nonNil(medium),
		Optimizations: nonNil(optimizations),
	}
}

// Count returns the number of recommendations across all buckets
func (r RecommendationSet) Count() int {
	return len(r.Critical) + len(r.High) + len(r.Medium) + len(r.Optimizations)
}

// MonitoredApps maps an app name to its opaque config block
type MonitoredApps map[string]any
