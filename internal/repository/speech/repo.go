package speech

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/hansard/internal/db"
	"github.com/kailas-cloud/hansard/internal/domain"
	"github.com/kailas-cloud/hansard/internal/metrics"
)

// store is the consumer interface for speech operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/archive.Repository over the speech index.
type Repo struct {
	store     store
	utcOffset int64
}

// New creates a speech repository. utcOffset shifts epoch timestamps into
// the corpus's local time zone when bucketing timelines.
func New(s store, utcOffset time.Duration) *Repo {
	return &Repo{store: s, utcOffset: int64(utcOffset / time.Second)}
}

// HitsPage fetches one page of ranked hits. With highlighting on, the text
// field comes back as a summarized fragment with matches wrapped in markers;
// without it (export, context) the full text is returned.
func (r *Repo) HitsPage(ctx context.Context, opts domain.SearchOptions, highlight bool) (domain.Page, error) {
	q := &db.TextQuery{
		IndexName:  IndexName,
		Query:      hitsQuery(opts),
		Offset:     opts.From,
		Limit:      opts.Size,
		SortBy:     sortSpec(opts.Sort),
		WithScores: true,
	}
	if highlight {
		q.Highlight = &db.HighlightSpec{
			Field:    domain.FieldText,
			OpenTag:  HighlightOpen,
			CloseTag: HighlightClose,
		}
	}

	sr, err := r.observeSearch(ctx, "hits", q)
	if err != nil {
		return domain.Page{}, fmt.Errorf("search hits: %w", err)
	}

	page := domain.Page{Total: sr.Total, Hits: make([]domain.Hit, 0, len(sr.Entries))}
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, domain.SpeechKeyPrefix)
		hit := domain.Hit{
			Speech: domain.SpeechFromFields(id, entry.Fields),
			Score:  entry.Score,
		}
		if highlight {
			hit.Highlight = extractHighlight(entry.Fields[domain.FieldText])
		}
		page.Hits = append(page.Hits, hit)
	}
	return page, nil
}

// CountMatches returns the total number of speeches matching the query text,
// without fetching any documents.
func (r *Repo) CountMatches(ctx context.Context, query string) (int, error) {
	start := time.Now()
	n, err := r.store.SearchCount(ctx, IndexName, filteredQuery(query))
	r.observe("count", start, err)
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

// TimelineBuckets aggregates per-period speech counts at the given interval.
// An empty query yields the unfiltered baseline.
func (r *Repo) TimelineBuckets(ctx context.Context, query string, iv domain.Interval) ([]domain.Bucket, error) {
	q := &db.AggregateQuery{
		IndexName: IndexName,
		Query:     filteredQuery(query),
		Apply:     []db.ApplyStep{timelineApply(iv, r.utcOffset)},
		GroupBy:   []string{"@" + periodField},
		Reduce:    []db.Reducer{{Func: db.ReduceCount, As: "count"}},
	}
	rows, err := r.aggregate(ctx, "timeline", q)
	if err != nil {
		return nil, fmt.Errorf("timeline buckets: %w", err)
	}
	return bucketsFromRows(rows, periodField), nil
}

// PartyBuckets aggregates per-party speech counts. An empty query yields the
// unfiltered baseline.
func (r *Repo) PartyBuckets(ctx context.Context, query string) ([]domain.Bucket, error) {
	q := &db.AggregateQuery{
		IndexName: IndexName,
		Query:     filteredQuery(query),
		GroupBy:   []string{"@" + domain.FieldParty},
		Reduce:    []db.Reducer{{Func: db.ReduceCount, As: "count"}},
	}
	rows, err := r.aggregate(ctx, "parties", q)
	if err != nil {
		return nil, fmt.Errorf("party buckets: %w", err)
	}
	return bucketsFromRows(rows, domain.FieldParty), nil
}

// SpeakerBuckets aggregates per-speaker speech counts. An empty query yields
// the unfiltered baseline.
func (r *Repo) SpeakerBuckets(ctx context.Context, query string) ([]domain.Bucket, error) {
	q := &db.AggregateQuery{
		IndexName: IndexName,
		Query:     filteredQuery(query),
		GroupBy:   []string{"@" + domain.FieldSpeaker},
		Reduce:    []db.Reducer{{Func: db.ReduceCount, As: "count"}},
	}
	rows, err := r.aggregate(ctx, "speakers", q)
	if err != nil {
		return nil, fmt.Errorf("speaker buckets: %w", err)
	}
	return bucketsFromRows(rows, domain.FieldSpeaker), nil
}

// SpeakerBucketsWithMeta aggregates per-speaker counts for the filtered
// query and captures one representative member id and party per speaker.
func (r *Repo) SpeakerBucketsWithMeta(ctx context.Context, query string) ([]domain.Bucket, map[string]domain.PersonMeta, error) {
	q := &db.AggregateQuery{
		IndexName: IndexName,
		Query:     filteredQuery(query),
		GroupBy:   []string{"@" + domain.FieldSpeaker},
		Reduce: []db.Reducer{
			{Func: db.ReduceCount, As: "count"},
			{Func: db.ReduceFirstValue, Args: []string{"@" + domain.FieldMember}, As: domain.FieldMember},
			{Func: db.ReduceFirstValue, Args: []string{"@" + domain.FieldParty}, As: domain.FieldParty},
		},
	}
	rows, err := r.aggregate(ctx, "speakers", q)
	if err != nil {
		return nil, nil, fmt.Errorf("speaker buckets with meta: %w", err)
	}

	buckets := bucketsFromRows(rows, domain.FieldSpeaker)
	meta := make(map[string]domain.PersonMeta, len(rows))
	for _, row := range rows {
		key := row[domain.FieldSpeaker]
		if key == "" {
			continue
		}
		meta[key] = domain.PersonMeta{
			MemberID: row[domain.FieldMember],
			Party:    row[domain.FieldParty],
		}
	}
	return buckets, meta, nil
}

// Get fetches a single speech by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Speech, error) {
	start := time.Now()
	fields, err := r.store.HGetAll(ctx, domain.SpeechKeyPrefix+id)
	r.observe("get", start, err)
	if err != nil {
		return domain.Speech{}, fmt.Errorf("get speech %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.Speech{}, fmt.Errorf("speech %s: %w", id, domain.ErrSpeechNotFound)
	}
	return domain.SpeechFromFields(id, fields), nil
}

// Slice fetches the speeches of one transcript with order between start and
// end inclusive, ascending by order. No matches is an empty slice, not an
// error.
func (r *Repo) Slice(ctx context.Context, transcript string, start, end int) ([]domain.Speech, error) {
	if end < start {
		return nil, nil
	}

	q := &db.TextQuery{
		IndexName: IndexName,
		Query: db.Clauses(
			db.TagClause(domain.FieldTranscript, transcript),
			db.RangeClause(domain.FieldOrder, int64(start), int64(end)),
		),
		Limit:  end - start + 1,
		SortBy: &db.SortSpec{Field: domain.FieldOrder},
	}

	sr, err := r.observeSearch(ctx, "context", q)
	if err != nil {
		return nil, fmt.Errorf("slice transcript %s: %w", transcript, err)
	}

	speeches := make([]domain.Speech, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, domain.SpeechKeyPrefix)
		speeches = append(speeches, domain.SpeechFromFields(id, entry.Fields))
	}
	return speeches, nil
}

func (r *Repo) observeSearch(ctx context.Context, op string, q *db.TextQuery) (*db.SearchResult, error) {
	start := time.Now()
	sr, err := r.store.Search(ctx, q)
	r.observe(op, start, err)
	return sr, err
}

func (r *Repo) aggregate(ctx context.Context, op string, q *db.AggregateQuery) ([]map[string]string, error) {
	start := time.Now()
	ar, err := r.store.Aggregate(ctx, q)
	r.observe(op, start, err)
	if err != nil {
		return nil, err
	}
	return ar.Rows, nil
}

func (r *Repo) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.SearchRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// extractHighlight returns the summarized text fragment when the index
// actually highlighted something in it, else the empty string.
func extractHighlight(text string) string {
	if strings.Contains(text, HighlightOpen) {
		return text
	}
	return ""
}

// bucketsFromRows converts aggregation rows into facet buckets, keyed by the
// named group-by column.
func bucketsFromRows(rows []map[string]string, keyField string) []domain.Bucket {
	buckets := make([]domain.Bucket, 0, len(rows))
	for _, row := range rows {
		key := row[keyField]
		if key == "" {
			continue
		}
		count, err := strconv.Atoi(row["count"])
		if err != nil {
			continue
		}
		buckets = append(buckets, domain.Bucket{Key: key, DocCount: count})
	}
	return buckets
}
