package archive

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/hansard/internal/domain"
	"github.com/kailas-cloud/hansard/internal/metrics"
)

// ExportHeader is the fixed TSV column set, in order.
var ExportHeader = []string{
	"transcript", "order", "session", "time", "chairs",
	"title", "speaker", "party", "text",
}

// ExportRows yields every matching speech as a TSV row, paging through the
// index with ascending offsets. The next page is not fetched until the
// consumer has drained the current one, bounding memory for large exports.
// Export bypasses the result caches.
func (s *Service) ExportRows(ctx context.Context, opts domain.SearchOptions) iter.Seq2[[]string, error] {
	opts.Size = s.exportPageSize
	opts.From = 0

	return func(yield func([]string, error) bool) {
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page, err := s.repo.HitsPage(ctx, opts, false)
			if err != nil {
				yield(nil, fmt.Errorf("export page at %d: %w", opts.From, err))
				return
			}

			for _, hit := range page.Hits {
				if !yield(exportRow(hit.Speech), nil) {
					return
				}
			}

			if len(page.Hits) < opts.Size {
				return
			}
			opts.From += opts.Size
		}
	}
}

// WriteTSV streams the full export for a query to w: one header row, then
// one tab-delimited row per matching speech.
func (s *Service) WriteTSV(ctx context.Context, w io.Writer, opts domain.SearchOptions) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'

	if err := tw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for row, err := range s.ExportRows(ctx, opts) {
		if err != nil {
			return err
		}
		if err := tw.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
		metrics.ExportRowsTotal.Inc()
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// exportRow projects a speech onto the fixed column set. The multi-valued
// chairs field is flattened into one delimited string.
func exportRow(sp domain.Speech) []string {
	return []string{
		sp.Transcript,
		strconv.Itoa(sp.Order),
		sp.Session,
		sp.Time.UTC().Format(time.RFC3339),
		strings.Join(sp.Chairs, domain.ChairsSeparator),
		sp.Title,
		sp.Speaker,
		sp.Party,
		sp.Text,
	}
}
