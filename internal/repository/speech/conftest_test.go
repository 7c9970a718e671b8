package speech

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/hansard/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn      func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	aggregateFn   func(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
	hGetAllFn     func(ctx context.Context, key string) (map[string]string, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return &db.AggregateResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hGetAllFn != nil {
		return m.hGetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, time.Hour)
	return repo, ms
}

func speechFields(transcript string, order int, speaker string) map[string]string {
	return map[string]string{
		"transcript": transcript,
		"order":      strconv.Itoa(order),
		"session":    "2024-25",
		"time":       "1700000000",
		"chairs":     "Alex Chair;Billie Chair",
		"title":      "Budget Debate",
		"speaker":    speaker,
		"party":      "Lab",
		"member":     "M-17",
		"text":       "the budget question was raised",
	}
}
