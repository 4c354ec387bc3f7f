package model

// ShareMetrics is a partial engagement record for one content URN. Nil fields
// mean "not reported by any source"; a record with every field nil is treated
// as no metrics at all (see Empty).
type ShareMetrics struct {
	Likes             *int64   `json:"likes,omitempty"`
	Comments          *int64   `json:"comments,omitempty"`
	Shares            *int64   `json:"shares,omitempty"`
	Impressions       *int64   `json:"impressions,omitempty"`
	Clicks            *int64   `json:"clicks,omitempty"`
	Engagement        *float64 `json:"engagement,omitempty"`
	UniqueImpressions *int64   `json:"unique_impressions,omitempty"`
}

// Empty reports whether no source contributed any counter.
func (m ShareMetrics) Empty() bool {
	return m.Likes == nil && m.Comments == nil && m.Shares == nil &&
		m.Impressions == nil && m.Clicks == nil && m.Engagement == nil &&
		m.UniqueImpressions == nil
}

// MergeMetrics combines two partial records field by field: b wins when its
// field is non-nil, otherwise a's value is kept. Commutative on disjoint
// fields, right-biased on overlapping ones.
func MergeMetrics(a, b ShareMetrics) ShareMetrics {
	out := a
	if b.Likes != nil {
		out.Likes = b.Likes
	}
	if b.Comments != nil {
		out.Comments = b.Comments
	}
	if b.Shares != nil {
		out.Shares = b.Shares
	}
	if b.Impressions != nil {
		out.Impressions = b.Impressions
	}
	if b.Clicks != nil {
		out.Clicks = b.Clicks
	}
	if b.Engagement != nil {
		out.Engagement = b.Engagement
	}
	if b.UniqueImpressions != nil {
		out.UniqueImpressions = b.UniqueImpressions
	}
	return out
}
