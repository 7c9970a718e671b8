package speech

import (
	"fmt"

	"github.com/kailas-cloud/hansard/internal/db"
	"github.com/kailas-cloud/hansard/internal/domain"
)

// IndexName is the full-text index over speech hashes.
const IndexName = domain.SpeechKeyPrefix + "idx"

// Highlight markers wrapped around matched terms in the text field.
const (
	HighlightOpen  = "<em>"
	HighlightClose = "</em>"
)

// periodField is the computed bucket key in timeline aggregations.
const periodField = "period"

// hitsQuery builds the ranked-search query string: AND-combined terms over
// the text field, excluding the presiding officer's procedural entries
// unless asked to include them.
func hitsQuery(opts domain.SearchOptions) string {
	chair := ""
	if !opts.IncludeChair {
		chair = db.NotTagClause(domain.FieldSpeaker, domain.ChairSpeaker)
	}
	return db.Clauses(db.TextClause(domain.FieldText, opts.Query), chair)
}

// filteredQuery builds the facet sub-filter for query-filtered aggregations.
// An empty query matches the whole corpus.
func filteredQuery(query string) string {
	return db.TextClause(domain.FieldText, query)
}

// sortSpec maps a user-facing sort key onto an index sort. The default (and
// any unrecognized value) is relevance order, which needs no SORTBY.
func sortSpec(sort string) *db.SortSpec {
	switch sort {
	case "date":
		return &db.SortSpec{Field: domain.FieldTime, Desc: true}
	case "date_asc":
		return &db.SortSpec{Field: domain.FieldTime}
	default:
		return nil
	}
}

// timelineApply builds the bucket-key expression for a date histogram at the
// given interval. Calendar intervals format the shifted timestamp; fixed-width
// intervals truncate it to the bucket start via modulo arithmetic. utcOffset
// shifts epoch seconds into the corpus's local time before bucketing.
func timelineApply(iv domain.Interval, utcOffset int64) db.ApplyStep {
	shifted := fmt.Sprintf("(@%s+%d)", domain.FieldTime, utcOffset)
	var expr string
	switch iv {
	case domain.IntervalMonth:
		expr = fmt.Sprintf("timefmt(%s, '%%Y-%%m')", shifted)
	case domain.IntervalYear:
		expr = fmt.Sprintf("timefmt(%s, '%%Y')", shifted)
	default:
		width := iv.Seconds()
		expr = fmt.Sprintf("%s - (%s %% %d)", shifted, shifted, width)
	}
	return db.ApplyStep{Expression: expr, As: periodField}
}
