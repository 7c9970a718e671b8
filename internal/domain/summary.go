package domain

// Bucket is a single facet value with its raw document count.
type Bucket struct {
	Key      string
	DocCount int
}

// PersonMeta is per-speaker metadata captured from one representative
// document in the query-filtered speaker facet.
type PersonMeta struct {
	MemberID string `json:"member_id"`
	Party    string `json:"party"`
}

// PercentageEntry relates a query-filtered facet count to the unfiltered
// baseline count for the same key. Pct is 0 when the baseline is empty,
// never NaN.
type PercentageEntry struct {
	Key    string      `json:"key"`
	Count  int         `json:"count"`
	Total  int         `json:"total"`
	Pct    float64     `json:"pct"`
	Person *PersonMeta `json:"person,omitempty"`
}

// Counts carries the total match count of a query.
type Counts struct {
	Total int `json:"total"`
}

// PeopleViews are two independently sorted top-20 views over the same
// speaker entries: absolute mention count and share of the speaker's output.
type PeopleViews struct {
	Count []PercentageEntry `json:"count"`
	Pct   []PercentageEntry `json:"pct"`
}

// SummaryResult is the faceted aggregate summary for one query.
type SummaryResult struct {
	Counts   Counts            `json:"counts"`
	Timeline []PercentageEntry `json:"timeline"`
	Parties  []PercentageEntry `json:"parties"`
	People   PeopleViews       `json:"people"`
}

// Hit is a ranked speech with its score and highlighted snippet. Highlight
// is the first highlighted fragment, or "" when the index returned none.
type Hit struct {
	Speech
	Score     float64 `json:"score"`
	Highlight string  `json:"highlight"`
}

// HitsResult is one page of ranked hits for a query.
type HitsResult struct {
	Query  string `json:"query"`
	Hits   []Hit  `json:"hits"`
	Counts Counts `json:"counts"`
}

// Page is one raw result page from the index: the page's hits plus the
// total match count across all pages.
type Page struct {
	Total int
	Hits  []Hit
}
