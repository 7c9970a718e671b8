package archive

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/hansard/internal/cache"
	"github.com/kailas-cloud/hansard/internal/domain"
	"github.com/kailas-cloud/hansard/internal/metrics"
)

// topEntries caps the people views at the twenty most prominent speakers.
const topEntries = 20

// Config carries the archive service tunables.
type Config struct {
	// CacheCapacity bounds each of the summary and hits caches.
	CacheCapacity int
	// HitsSize is the default page size for ranked hits.
	HitsSize int
	// ExportPageSize is the fetch size for TSV export paging.
	ExportPageSize int
	// CurrentParties lists the currently active parties; historical parties
	// are excluded from the summary's party view.
	CurrentParties []string
}

// Service answers aggregate summaries, ranked hits, exports, and contextual
// retrieval over the speech archive. Summary and hits results are cached;
// exports and single-document reads go straight to the index.
type Service struct {
	repo           Repository
	summaries      *cache.Cache[domain.SummaryResult]
	hits           *cache.Cache[domain.HitsResult]
	currentParties map[string]struct{}
	hitsSize       int
	exportPageSize int
	logger         *zap.Logger
}

// New creates an archive service.
func New(repo Repository, cfg Config, logger *zap.Logger) (*Service, error) {
	summaries, err := cache.New[domain.SummaryResult](cfg.CacheCapacity, metrics.SummaryCacheTotal)
	if err != nil {
		return nil, fmt.Errorf("create summary cache: %w", err)
	}
	hits, err := cache.New[domain.HitsResult](cfg.CacheCapacity, metrics.HitsCacheTotal)
	if err != nil {
		return nil, fmt.Errorf("create hits cache: %w", err)
	}

	parties := make(map[string]struct{}, len(cfg.CurrentParties))
	for _, p := range cfg.CurrentParties {
		parties[p] = struct{}{}
	}

	return &Service{
		repo:           repo,
		summaries:      summaries,
		hits:           hits,
		currentParties: parties,
		hitsSize:       cfg.HitsSize,
		exportPageSize: cfg.ExportPageSize,
		logger:         logger,
	}, nil
}

// Summary returns the faceted aggregate summary for a query. The interval is
// validated before any index round trip; results are cached per options.
func (s *Service) Summary(ctx context.Context, opts domain.SearchOptions) (domain.SummaryResult, error) {
	iv, err := domain.ParseInterval(opts.Interval)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	opts.Interval = string(iv)

	key, err := cache.Key("summary", opts)
	if err != nil {
		return domain.SummaryResult{}, err
	}

	return s.summaries.Do(ctx, key, func(ctx context.Context) (domain.SummaryResult, error) {
		return s.fetchSummary(ctx, opts.Query, iv)
	})
}

// fetchSummary runs the three baseline and three query-filtered facet
// aggregations plus the total count, concurrently, and shapes the result.
func (s *Service) fetchSummary(ctx context.Context, query string, iv domain.Interval) (domain.SummaryResult, error) {
	var total int
	var baseTimeline, filteredTimeline []domain.Bucket
	var baseParties, filteredParties []domain.Bucket
	var baseSpeakers, filteredSpeakers []domain.Bucket
	var people map[string]domain.PersonMeta

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.CountMatches(gctx, query)
		return err
	})
	g.Go(func() (err error) {
		baseTimeline, err = s.repo.TimelineBuckets(gctx, "", iv)
		return err
	})
	g.Go(func() (err error) {
		filteredTimeline, err = s.repo.TimelineBuckets(gctx, query, iv)
		return err
	})
	g.Go(func() (err error) {
		baseParties, err = s.repo.PartyBuckets(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		filteredParties, err = s.repo.PartyBuckets(gctx, query)
		return err
	})
	g.Go(func() (err error) {
		baseSpeakers, err = s.repo.SpeakerBuckets(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		filteredSpeakers, people, err = s.repo.SpeakerBucketsWithMeta(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SummaryResult{}, fmt.Errorf("fetch summary: %w", err)
	}

	peopleEntries := attachPeople(subsetEntries(filteredSpeakers, baseSpeakers), people)

	return domain.SummaryResult{
		Counts:   domain.Counts{Total: total},
		Timeline: trimEnds(sortChronological(unionEntries(filteredTimeline, baseTimeline), iv)),
		Parties:  s.filterCurrentParties(subsetEntries(filteredParties, baseParties)),
		People: domain.PeopleViews{
			Count: topByCount(peopleEntries, topEntries),
			Pct:   topByPct(peopleEntries, topEntries),
		},
	}, nil
}

// Hits returns one page of ranked hits with highlighted snippets. Results
// are cached per options.
func (s *Service) Hits(ctx context.Context, opts domain.SearchOptions) (domain.HitsResult, error) {
	if opts.Size <= 0 {
		opts.Size = s.hitsSize
	}
	if opts.From < 0 {
		opts.From = 0
	}

	key, err := cache.Key("hits", opts)
	if err != nil {
		return domain.HitsResult{}, err
	}

	return s.hits.Do(ctx, key, func(ctx context.Context) (domain.HitsResult, error) {
		page, err := s.repo.HitsPage(ctx, opts, true)
		if err != nil {
			return domain.HitsResult{}, err
		}
		hits := page.Hits
		if hits == nil {
			hits = []domain.Hit{}
		}
		return domain.HitsResult{
			Query:  opts.Query,
			Hits:   hits,
			Counts: domain.Counts{Total: page.Total},
		}, nil
	})
}

// Speech fetches one speech by id, uncached.
func (s *Service) Speech(ctx context.Context, id string) (domain.Speech, error) {
	return s.repo.Get(ctx, id)
}

// Context fetches the contiguous slice of one transcript's speeches with
// order in [start, end], ascending, uncached. No matches is an empty slice.
func (s *Service) Context(ctx context.Context, transcript string, start, end int) ([]domain.Speech, error) {
	speeches, err := s.repo.Slice(ctx, transcript, start, end)
	if err != nil {
		return nil, err
	}
	if speeches == nil {
		speeches = []domain.Speech{}
	}
	return speeches, nil
}
