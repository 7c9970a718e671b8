package archive

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/hansard/internal/domain"
)

func TestSummary_InvalidIntervalRejectedBeforeIO(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Summary(context.Background(), domain.SearchOptions{Query: "budget", Interval: "week"})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if repo.aggregateCalls != 0 {
		t.Errorf("validation must precede any index round trip, got %d calls", repo.aggregateCalls)
	}
}

func TestSummary_CacheHitSkipsRoundTrip(t *testing.T) {
	svc, repo := newTestService(t)
	repo.countMatchesFn = func(ctx context.Context, query string) (int, error) { return 7, nil }

	ctx := context.Background()
	opts := domain.SearchOptions{Query: "budget"}

	first, err := svc.Summary(ctx, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := repo.aggregateCalls
	if calls == 0 {
		t.Fatal("expected index round trips on first call")
	}

	second, err := svc.Summary(ctx, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.aggregateCalls != calls {
		t.Errorf("second call must be served from cache, calls %d -> %d", calls, repo.aggregateCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestSummary_DefaultIntervalSharesCacheEntry(t *testing.T) {
	svc, repo := newTestService(t)

	ctx := context.Background()
	if _, err := svc.Summary(ctx, domain.SearchOptions{Query: "budget"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := repo.aggregateCalls

	// "month" is the default; spelling it out must hit the same entry.
	if _, err := svc.Summary(ctx, domain.SearchOptions{Query: "budget", Interval: "month"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.aggregateCalls != calls {
		t.Errorf("explicit default interval must share the cache entry, calls %d -> %d", calls, repo.aggregateCalls)
	}
}

func TestSummary_DistinctQueriesDistinctEntries(t *testing.T) {
	svc, repo := newTestService(t)

	ctx := context.Background()
	if _, err := svc.Summary(ctx, domain.SearchOptions{Query: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := repo.aggregateCalls

	if _, err := svc.Summary(ctx, domain.SearchOptions{Query: "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.aggregateCalls == calls {
		t.Error("a different query must trigger its own fetch")
	}
}

func TestSummary_ErrorNotCached(t *testing.T) {
	svc, repo := newTestService(t)

	wantErr := errors.New("index down")
	failing := true
	repo.countMatchesFn = func(ctx context.Context, query string) (int, error) {
		if failing {
			return 0, wantErr
		}
		return 7, nil
	}

	ctx := context.Background()
	opts := domain.SearchOptions{Query: "budget"}

	if _, err := svc.Summary(ctx, opts); !errors.Is(err, wantErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	failing = false
	result, err := svc.Summary(ctx, opts)
	if err != nil {
		t.Fatalf("expected recovery after upstream failure, got %v", err)
	}
	if result.Counts.Total != 7 {
		t.Errorf("expected fresh fetch, got %+v", result.Counts)
	}
}

func TestSummary_ShapesFullResult(t *testing.T) {
	svc, repo := newTestService(t)

	repo.countMatchesFn = func(ctx context.Context, query string) (int, error) { return 60, nil }
	repo.timelineBucketsFn = func(ctx context.Context, query string, iv domain.Interval) ([]domain.Bucket, error) {
		if query == "" {
			return []domain.Bucket{
				{Key: "2024-01", DocCount: 100},
				{Key: "2024-02", DocCount: 100},
				{Key: "2024-03", DocCount: 100},
				{Key: "2024-04", DocCount: 100},
			}, nil
		}
		return []domain.Bucket{
			{Key: "2024-02", DocCount: 20},
			{Key: "2024-03", DocCount: 40},
		}, nil
	}
	repo.partyBucketsFn = func(ctx context.Context, query string) ([]domain.Bucket, error) {
		if query == "" {
			return []domain.Bucket{{Key: "Lab", DocCount: 200}, {Key: "Whigs", DocCount: 50}}, nil
		}
		return []domain.Bucket{{Key: "Lab", DocCount: 50}, {Key: "Whigs", DocCount: 5}}, nil
	}
	repo.speakerBucketsFn = func(ctx context.Context, query string) ([]domain.Bucket, error) {
		return []domain.Bucket{{Key: "Alex Example", DocCount: 80}}, nil
	}
	repo.speakerBucketsWithMetaFn = func(ctx context.Context, query string) ([]domain.Bucket, map[string]domain.PersonMeta, error) {
		return []domain.Bucket{{Key: "Alex Example", DocCount: 40}},
			map[string]domain.PersonMeta{"Alex Example": {MemberID: "M-17", Party: "Lab"}}, nil
	}

	result, err := svc.Summary(context.Background(), domain.SearchOptions{Query: "budget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Counts.Total != 60 {
		t.Errorf("unexpected total: %d", result.Counts.Total)
	}

	// Four buckets, first and last trimmed.
	if len(result.Timeline) != 2 {
		t.Fatalf("expected trimmed timeline of 2, got %+v", result.Timeline)
	}
	if result.Timeline[0].Key != "2024-02" || result.Timeline[0].Pct != 20 {
		t.Errorf("unexpected timeline entry: %+v", result.Timeline[0])
	}

	// Historical party filtered out.
	if len(result.Parties) != 1 || result.Parties[0].Key != "Lab" || result.Parties[0].Pct != 25 {
		t.Errorf("unexpected parties: %+v", result.Parties)
	}

	if len(result.People.Count) != 1 || len(result.People.Pct) != 1 {
		t.Fatalf("unexpected people views: %+v", result.People)
	}
	p := result.People.Count[0]
	if p.Count != 40 || p.Total != 80 || p.Pct != 50 {
		t.Errorf("unexpected person entry: %+v", p)
	}
	if p.Person == nil || p.Person.MemberID != "M-17" {
		t.Errorf("expected person meta: %+v", p.Person)
	}
}

func TestSummary_PctBounds(t *testing.T) {
	svc, repo := newTestService(t)

	repo.timelineBucketsFn = func(ctx context.Context, query string, iv domain.Interval) ([]domain.Bucket, error) {
		if query == "" {
			return []domain.Bucket{{Key: "2024-01", DocCount: 0}, {Key: "2024-02", DocCount: 10}, {Key: "2024-03", DocCount: 10}, {Key: "2024-04", DocCount: 1}}, nil
		}
		return []domain.Bucket{{Key: "2024-02", DocCount: 10}, {Key: "2024-03", DocCount: 3}}, nil
	}

	result, err := svc.Summary(context.Background(), domain.SearchOptions{Query: "budget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range result.Timeline {
		if e.Pct < 0 || e.Pct > 100 {
			t.Errorf("pct out of bounds: %+v", e)
		}
		if e.Total == 0 && e.Pct != 0 {
			t.Errorf("empty baseline must yield pct 0: %+v", e)
		}
	}
}

func TestHits_DefaultsAndShaping(t *testing.T) {
	svc, repo := newTestService(t)

	repo.hitsPageFn = func(ctx context.Context, opts domain.SearchOptions, highlight bool) (domain.Page, error) {
		if !highlight {
			t.Error("hits must request highlighting")
		}
		if opts.Size != 10 {
			t.Errorf("expected default size 10, got %d", opts.Size)
		}
		return domain.Page{
			Total: 42,
			Hits: []domain.Hit{
				{Speech: domain.Speech{ID: "s1"}, Score: 0.9, Highlight: "the <em>budget</em>"},
			},
		}, nil
	}

	result, err := svc.Hits(context.Background(), domain.SearchOptions{Query: "budget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Query != "budget" {
		t.Errorf("unexpected query echo: %q", result.Query)
	}
	if result.Counts.Total != 42 {
		t.Errorf("total must be the full match count, got %d", result.Counts.Total)
	}
	if len(result.Hits) != 1 || result.Hits[0].Highlight != "the <em>budget</em>" {
		t.Errorf("unexpected hits: %+v", result.Hits)
	}
}

func TestHits_Cached(t *testing.T) {
	svc, repo := newTestService(t)

	ctx := context.Background()
	opts := domain.SearchOptions{Query: "budget", Size: 5}

	if _, err := svc.Hits(ctx, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Hits(ctx, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.hitsPageCalls != 1 {
		t.Errorf("expected 1 round trip, got %d", repo.hitsPageCalls)
	}
}

func TestHits_EmptyPageYieldsEmptySlice(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Hits(context.Background(), domain.SearchOptions{Query: "nothing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Hits == nil {
		t.Error("hits must be an empty slice, not nil")
	}
}

func TestSpeech_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Speech(context.Background(), "absent")
	if !errors.Is(err, domain.ErrSpeechNotFound) {
		t.Errorf("expected ErrSpeechNotFound, got %v", err)
	}
}

func TestContext_ReturnsOrderedSlice(t *testing.T) {
	svc, repo := newTestService(t)

	repo.sliceFn = func(ctx context.Context, transcript string, start, end int) ([]domain.Speech, error) {
		if transcript != "T1" || start != 3 || end != 5 {
			t.Errorf("unexpected args: %s %d %d", transcript, start, end)
		}
		return []domain.Speech{{ID: "a", Order: 3}, {ID: "b", Order: 4}, {ID: "c", Order: 5}}, nil
	}

	speeches, err := svc.Context(context.Background(), "T1", 3, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(speeches) != 3 {
		t.Fatalf("expected 3 speeches, got %d", len(speeches))
	}
	for i, want := range []int{3, 4, 5} {
		if speeches[i].Order != want {
			t.Errorf("position %d: expected order %d, got %d", i, want, speeches[i].Order)
		}
	}
}

func TestContext_NoMatchesIsEmptyNotError(t *testing.T) {
	svc, _ := newTestService(t)

	speeches, err := svc.Context(context.Background(), "T1", 900, 910)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if speeches == nil || len(speeches) != 0 {
		t.Errorf("expected empty slice, got %v", speeches)
	}
}
