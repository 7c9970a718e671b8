package db

import (
	"context"
	"time"
)

// Store is the full index-store facade. Consumers depend on the narrow
// sub-interfaces below, never on Store directly.
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based document storage.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides query, aggregation, and count operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *TextQuery) (*SearchResult, error)
	Aggregate(ctx context.Context, q *AggregateQuery) (*AggregateResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}
