package archive

import (
	"sort"
	"time"

	"github.com/kailas-cloud/hansard/internal/domain"
)

// pctOf is the percentage of total that count represents. An empty baseline
// yields 0, never NaN.
func pctOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// subsetEntries relates query-filtered counts to baseline counts over the
// filtered keys only: a key absent from the filtered side is omitted even
// when the baseline has it.
func subsetEntries(filtered, baseline []domain.Bucket) []domain.PercentageEntry {
	totals := make(map[string]int, len(baseline))
	for _, b := range baseline {
		totals[b.Key] = b.DocCount
	}

	entries := make([]domain.PercentageEntry, 0, len(filtered))
	for _, b := range filtered {
		total := totals[b.Key]
		entries = append(entries, domain.PercentageEntry{
			Key:   b.Key,
			Count: b.DocCount,
			Total: total,
			Pct:   pctOf(b.DocCount, total),
		})
	}
	return entries
}

// unionEntries relates counts over the union of both key sets: a key present
// on either side is included, with the missing side defaulting to 0.
func unionEntries(filtered, baseline []domain.Bucket) []domain.PercentageEntry {
	counts := make(map[string]int, len(filtered))
	for _, b := range filtered {
		counts[b.Key] = b.DocCount
	}
	totals := make(map[string]int, len(baseline))
	keys := make([]string, 0, len(baseline)+len(filtered))
	for _, b := range baseline {
		totals[b.Key] = b.DocCount
		keys = append(keys, b.Key)
	}
	for _, b := range filtered {
		if _, ok := totals[b.Key]; !ok {
			keys = append(keys, b.Key)
		}
	}

	entries := make([]domain.PercentageEntry, 0, len(keys))
	for _, key := range keys {
		count := counts[key]
		total := totals[key]
		entries = append(entries, domain.PercentageEntry{
			Key:   key,
			Count: count,
			Total: total,
			Pct:   pctOf(count, total),
		})
	}
	return entries
}

// sortChronological orders timeline entries by the instant each bucket key
// represents. Unparseable keys sort first.
func sortChronological(entries []domain.PercentageEntry, iv domain.Interval) []domain.PercentageEntry {
	instants := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if t, err := iv.ParseBucketKey(e.Key); err == nil {
			instants[e.Key] = t
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := instants[entries[i].Key], instants[entries[j].Key]
		if ti.Equal(tj) {
			return entries[i].Key < entries[j].Key
		}
		return ti.Before(tj)
	})
	return entries
}

// trimEnds drops the first and last timeline entries: edge buckets cover
// partial periods and their counts mislead.
func trimEnds(entries []domain.PercentageEntry) []domain.PercentageEntry {
	if len(entries) <= 2 {
		return []domain.PercentageEntry{}
	}
	return entries[1 : len(entries)-1]
}

// attachPeople annotates speaker entries with their member metadata.
func attachPeople(entries []domain.PercentageEntry, meta map[string]domain.PersonMeta) []domain.PercentageEntry {
	for i := range entries {
		if m, ok := meta[entries[i].Key]; ok {
			person := m
			entries[i].Person = &person
		}
	}
	return entries
}

// filterCurrentParties drops historical and defunct parties from the party
// view.
func (s *Service) filterCurrentParties(entries []domain.PercentageEntry) []domain.PercentageEntry {
	kept := make([]domain.PercentageEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := s.currentParties[e.Key]; ok {
			kept = append(kept, e)
		}
	}
	return kept
}

// topByCount returns the n entries with the highest counts, descending.
// Ties break on key for deterministic output.
func topByCount(entries []domain.PercentageEntry, n int) []domain.PercentageEntry {
	out := make([]domain.PercentageEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// topByPct returns the n entries with the highest percentages, descending.
// Ties break on key for deterministic output.
func topByPct(entries []domain.PercentageEntry, n int) []domain.PercentageEntry {
	out := make([]domain.PercentageEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pct != out[j].Pct {
			return out[i].Pct > out[j].Pct
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
