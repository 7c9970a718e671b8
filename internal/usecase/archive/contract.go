package archive

import (
	"context"

	"github.com/kailas-cloud/hansard/internal/domain"
)

// Repository defines the index contract for archive operations.
type Repository interface {
	// HitsPage fetches one page of ranked hits for the options' query.
	HitsPage(ctx context.Context, opts domain.SearchOptions, highlight bool) (domain.Page, error)

	// CountMatches returns the total match count for a query text. An empty
	// query counts the whole corpus.
	CountMatches(ctx context.Context, query string) (int, error)

	// TimelineBuckets aggregates per-period counts at the given interval.
	// An empty query yields the unfiltered baseline.
	TimelineBuckets(ctx context.Context, query string, iv domain.Interval) ([]domain.Bucket, error)

	// PartyBuckets aggregates per-party counts. An empty query yields the
	// unfiltered baseline.
	PartyBuckets(ctx context.Context, query string) ([]domain.Bucket, error)

	// SpeakerBuckets aggregates per-speaker counts. An empty query yields
	// the unfiltered baseline.
	SpeakerBuckets(ctx context.Context, query string) ([]domain.Bucket, error)

	// SpeakerBucketsWithMeta aggregates per-speaker counts for the filtered
	// query and captures representative member metadata per speaker.
	SpeakerBucketsWithMeta(ctx context.Context, query string) ([]domain.Bucket, map[string]domain.PersonMeta, error)

	// Get fetches a single speech by id.
	Get(ctx context.Context, id string) (domain.Speech, error)

	// Slice fetches one transcript's speeches with order in [start, end],
	// ascending.
	Slice(ctx context.Context, transcript string, start, end int) ([]domain.Speech, error)
}
