package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/hansard/internal/db"
)

// defaultAggregateLimit bounds the number of groups returned when the
// caller does not specify one.
const defaultAggregateLimit = 1000

// Aggregate runs a faceted aggregation via FT.AGGREGATE.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.GroupBy) == 0 {
		return nil, fmt.Errorf("at least one group-by field is required")
	}

	query := q.Query
	if query == "" {
		query = db.MatchAll
	}

	args := []string{q.IndexName, query}

	for _, a := range q.Apply {
		args = append(args, "APPLY", a.Expression, "AS", a.As)
	}

	args = append(args, "GROUPBY", strconv.Itoa(len(q.GroupBy)))
	args = append(args, q.GroupBy...)

	for _, r := range q.Reduce {
		args = append(args, "REDUCE", r.Func, strconv.Itoa(len(r.Args)))
		args = append(args, r.Args...)
		if r.As != "" {
			args = append(args, "AS", r.As)
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultAggregateLimit
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateResult(raw)
}

// parseAggregateResult decodes the RESP2 reply: [total, row1, row2, ...]
// where each row is a flat name/value array.
func parseAggregateResult(raw []rueidis.RedisMessage) (*db.AggregateResult, error) {
	if len(raw) == 0 {
		return &db.AggregateResult{}, nil
	}

	// raw[0] is the group count; rows follow.
	result := &db.AggregateResult{Rows: make([]map[string]string, 0, len(raw)-1)}

	for i := 1; i < len(raw); i++ {
		pairs, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		result.Rows = append(result.Rows, parseFieldPairs(pairs))
	}

	return result, nil
}
