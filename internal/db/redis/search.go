package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/hansard/internal/db"
)

// Search runs a ranked full-text query via FT.SEARCH.
func (s *Store) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	args := []string{q.IndexName, q.Query}

	if q.WithScores {
		args = append(args, "WITHSCORES")
	}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	if h := q.Highlight; h != nil {
		fragLen := h.FragLen
		if fragLen <= 0 {
			fragLen = 40
		}
		args = append(args,
			"SUMMARIZE", "FIELDS", "1", h.Field,
			"FRAGS", "1", "LEN", strconv.Itoa(fragLen),
			"HIGHLIGHT", "FIELDS", "1", h.Field,
			"TAGS", h.OpenTag, h.CloseTag,
		)
	}

	if sb := q.SortBy; sb != nil {
		dir := "ASC"
		if sb.Desc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", sb.Field, dir)
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw, q.WithScores)
}

// SearchCount returns the match count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, query, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{Total: 0}, nil
	}

	result := &db.SearchResult{Total: int(total)}

	// WITHSCORES is 3-stride: [total, key1, score1, fields1, ...];
	// without it, 2-stride: [total, key1, fields1, ...].
	stride := 2
	if withScores {
		stride = 3
	}

	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{Key: key}

		if withScores {
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil {
				continue
			}
			entry.Score = score
		}

		fields, err := raw[i+stride-1].ToArray()
		if err != nil {
			continue
		}
		entry.Fields = parseFieldPairs(fields)

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
