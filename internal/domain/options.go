package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Interval selects the time-bucket width for the summary timeline.
type Interval string

const (
	// IntervalMonth buckets by calendar month.
	IntervalMonth Interval = "month"
	// Interval12Weeks buckets by fixed 12-week periods.
	Interval12Weeks Interval = "12w"
	// Interval24Weeks buckets by fixed 24-week periods.
	Interval24Weeks Interval = "24w"
	// IntervalYear buckets by calendar year.
	IntervalYear Interval = "year"
)

// ParseInterval normalizes a user-supplied interval. Empty means month.
// Anything outside the allowed set fails: finer buckets (day, week) are too
// expensive to aggregate over the whole corpus.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case "":
		return IntervalMonth, nil
	case IntervalMonth, Interval12Weeks, Interval24Weeks, IntervalYear:
		return Interval(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
}

// Seconds returns the bucket width in seconds for fixed-width intervals,
// and 0 for calendar intervals (month, year).
func (iv Interval) Seconds() int64 {
	const week = 7 * 24 * 60 * 60
	switch iv {
	case Interval12Weeks:
		return 12 * week
	case Interval24Weeks:
		return 24 * week
	default:
		return 0
	}
}

// ParseBucketKey converts a bucket key produced by this interval's grouping
// expression back into the instant the bucket represents. Calendar intervals
// use formatted keys ("2006-01", "2006"); fixed-width intervals use the
// bucket-start epoch seconds.
func (iv Interval) ParseBucketKey(key string) (time.Time, error) {
	switch iv {
	case IntervalMonth:
		return time.Parse("2006-01", key)
	case IntervalYear:
		return time.Parse("2006", key)
	default:
		sec, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse bucket key %q: %w", key, err)
		}
		return time.Unix(sec, 0).UTC(), nil
	}
}

// SearchOptions carries the user-facing search parameters. Unknown request
// fields are ignored at the transport layer; only these are recognized.
//
// The JSON encoding of this struct is the canonical cache-key serialization:
// field order is fixed by the struct, so semantically identical options
// always serialize identically.
type SearchOptions struct {
	Query        string `json:"query"`
	Interval     string `json:"interval,omitempty"`
	IncludeChair bool   `json:"include_chair,omitempty"`
	Size         int    `json:"size,omitempty"`
	From         int    `json:"from,omitempty"`
	Sort         string `json:"sort,omitempty"`
}
