package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseInterval_Defaults(t *testing.T) {
	iv, err := ParseInterval("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv != IntervalMonth {
		t.Errorf("expected month, got %s", iv)
	}
}

func TestParseInterval_Allowed(t *testing.T) {
	for _, s := range []string{"month", "12w", "24w", "year"} {
		iv, err := ParseInterval(s)
		if err != nil {
			t.Errorf("ParseInterval(%q): unexpected error: %v", s, err)
		}
		if string(iv) != s {
			t.Errorf("ParseInterval(%q) = %s", s, iv)
		}
	}
}

func TestParseInterval_Rejected(t *testing.T) {
	for _, s := range []string{"week", "day", "hour", "Month", "monthly"} {
		_, err := ParseInterval(s)
		if !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("ParseInterval(%q): expected ErrInvalidInterval, got %v", s, err)
		}
	}
}

func TestIntervalSeconds(t *testing.T) {
	if got := Interval12Weeks.Seconds(); got != 7257600 {
		t.Errorf("12w seconds = %d", got)
	}
	if got := Interval24Weeks.Seconds(); got != 14515200 {
		t.Errorf("24w seconds = %d", got)
	}
	if got := IntervalMonth.Seconds(); got != 0 {
		t.Errorf("month seconds = %d", got)
	}
}

func TestParseBucketKey_Month(t *testing.T) {
	ts, err := IntervalMonth.ParseBucketKey("2014-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Year() != 2014 || ts.Month() != time.March {
		t.Errorf("unexpected instant: %v", ts)
	}
}

func TestParseBucketKey_Year(t *testing.T) {
	ts, err := IntervalYear.ParseBucketKey("2019")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Year() != 2019 {
		t.Errorf("unexpected instant: %v", ts)
	}
}

func TestParseBucketKey_Epoch(t *testing.T) {
	ts, err := Interval12Weeks.ParseBucketKey("1396310400")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Unix() != 1396310400 {
		t.Errorf("unexpected instant: %v", ts)
	}
}

func TestParseBucketKey_Invalid(t *testing.T) {
	if _, err := Interval12Weeks.ParseBucketKey("not-a-number"); err == nil {
		t.Error("expected error")
	}
	if _, err := IntervalMonth.ParseBucketKey("2014-3-1"); err == nil {
		t.Error("expected error")
	}
}
