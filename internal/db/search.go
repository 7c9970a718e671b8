package db

// HighlightSpec asks FT.SEARCH to return a field as a single highlighted
// fragment instead of its full stored value.
type HighlightSpec struct {
	Field    string
	OpenTag  string
	CloseTag string
	FragLen  int // fragment length in words (SUMMARIZE LEN)
}

// SortSpec orders results by a sortable field instead of relevance score.
type SortSpec struct {
	Field string
	Desc  bool
}

// TextQuery is the input for a ranked full-text search.
type TextQuery struct {
	IndexName    string
	Query        string // full query string, filters included
	Offset       int
	Limit        int
	ReturnFields []string
	Highlight    *HighlightSpec // nil: return stored values as-is
	SortBy       *SortSpec      // nil: sort by relevance score
	WithScores   bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// ApplyStep is a computed column added before grouping (FT.AGGREGATE APPLY).
type ApplyStep struct {
	Expression string
	As         string
}

// Reducer aggregates grouped rows (FT.AGGREGATE REDUCE).
type Reducer struct {
	Func string // COUNT, FIRST_VALUE, ...
	Args []string
	As   string
}

// Reducer function names.
const (
	ReduceCount      = "COUNT"
	ReduceFirstValue = "FIRST_VALUE"
)

// AggregateQuery is the input for a faceted aggregation.
type AggregateQuery struct {
	IndexName string
	Query     string
	Apply     []ApplyStep
	GroupBy   []string // field references, e.g. "@party"
	Reduce    []Reducer
	Limit     int // max groups returned; 0 means the store default
}

// AggregateResult holds one row of name/value pairs per group.
type AggregateResult struct {
	Rows []map[string]string
}
