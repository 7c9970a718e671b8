package archive

import (
	"context"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hansard/internal/domain"
)

// mockRepo implements Repository for tests, counting round trips.
type mockRepo struct {
	hitsPageFn               func(ctx context.Context, opts domain.SearchOptions, highlight bool) (domain.Page, error)
	countMatchesFn           func(ctx context.Context, query string) (int, error)
	timelineBucketsFn        func(ctx context.Context, query string, iv domain.Interval) ([]domain.Bucket, error)
	partyBucketsFn           func(ctx context.Context, query string) ([]domain.Bucket, error)
	speakerBucketsFn         func(ctx context.Context, query string) ([]domain.Bucket, error)
	speakerBucketsWithMetaFn func(ctx context.Context, query string) ([]domain.Bucket, map[string]domain.PersonMeta, error)
	getFn                    func(ctx context.Context, id string) (domain.Speech, error)
	sliceFn                  func(ctx context.Context, transcript string, start, end int) ([]domain.Speech, error)

	hitsPageCalls  int
	aggregateCalls int
}

func (m *mockRepo) HitsPage(ctx context.Context, opts domain.SearchOptions, highlight bool) (domain.Page, error) {
	m.hitsPageCalls++
	if m.hitsPageFn != nil {
		return m.hitsPageFn(ctx, opts, highlight)
	}
	return domain.Page{}, nil
}

func (m *mockRepo) CountMatches(ctx context.Context, query string) (int, error) {
	m.aggregateCalls++
	if m.countMatchesFn != nil {
		return m.countMatchesFn(ctx, query)
	}
	return 0, nil
}

func (m *mockRepo) TimelineBuckets(ctx context.Context, query string, iv domain.Interval) ([]domain.Bucket, error) {
	m.aggregateCalls++
	if m.timelineBucketsFn != nil {
		return m.timelineBucketsFn(ctx, query, iv)
	}
	return nil, nil
}

func (m *mockRepo) PartyBuckets(ctx context.Context, query string) ([]domain.Bucket, error) {
	m.aggregateCalls++
	if m.partyBucketsFn != nil {
		return m.partyBucketsFn(ctx, query)
	}
	return nil, nil
}

func (m *mockRepo) SpeakerBuckets(ctx context.Context, query string) ([]domain.Bucket, error) {
	m.aggregateCalls++
	if m.speakerBucketsFn != nil {
		return m.speakerBucketsFn(ctx, query)
	}
	return nil, nil
}

func (m *mockRepo) SpeakerBucketsWithMeta(ctx context.Context, query string) ([]domain.Bucket, map[string]domain.PersonMeta, error) {
	m.aggregateCalls++
	if m.speakerBucketsWithMetaFn != nil {
		return m.speakerBucketsWithMetaFn(ctx, query)
	}
	return nil, nil, nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domain.Speech, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Speech{}, domain.ErrSpeechNotFound
}

func (m *mockRepo) Slice(ctx context.Context, transcript string, start, end int) ([]domain.Speech, error) {
	if m.sliceFn != nil {
		return m.sliceFn(ctx, transcript, start, end)
	}
	return nil, nil
}

func testConfig() Config {
	return Config{
		CacheCapacity:  16,
		HitsSize:       10,
		ExportPageSize: 10,
		CurrentParties: []string{"Lab", "Con", "Grn"},
	}
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	repo := &mockRepo{}
	svc, err := New(repo, testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, repo
}

// corpus builds n speeches in one transcript, ordered 1..n.
func corpus(n int) []domain.Speech {
	speeches := make([]domain.Speech, n)
	for i := range speeches {
		speeches[i] = domain.Speech{
			ID:         "s" + strconv.Itoa(i+1),
			Transcript: "T1",
			Order:      i + 1,
			Session:    "2024-25",
			Chairs:     []string{"Alex Chair", "Billie Chair"},
			Title:      "Budget Debate",
			Speaker:    "Casey Example",
			Party:      "Lab",
			Text:       "the budget question was raised",
		}
	}
	return speeches
}

// pagedRepo serves HitsPage from a fixed corpus slice, honoring offsets.
func pagedRepo(speeches []domain.Speech) *mockRepo {
	m := &mockRepo{}
	m.hitsPageFn = func(ctx context.Context, opts domain.SearchOptions, highlight bool) (domain.Page, error) {
		start := opts.From
		if start > len(speeches) {
			start = len(speeches)
		}
		end := start + opts.Size
		if end > len(speeches) {
			end = len(speeches)
		}
		hits := make([]domain.Hit, 0, end-start)
		for _, sp := range speeches[start:end] {
			hits = append(hits, domain.Hit{Speech: sp})
		}
		return domain.Page{Total: len(speeches), Hits: hits}, nil
	}
	return m
}
