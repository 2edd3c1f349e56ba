package sink

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"travel-news/internal/article"
)

// Sink exports a set of articles.
//
// Every sink is attached to exactly one view in a Set:
//   - Archive receives the full store contents on every run (audit trail).
//   - Top receives only the ranked top-N of the run (curated view).
//
// A sink failing has no effect on what was stored.
type Sink interface {
	Name() string
	Write(ctx context.Context, articles []article.Article) error
}

type Set struct {
	Archive []Sink
	Top     []Sink
}

const displayTimeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"title", "source", "url", "published_at"}

// encodeCSV writes one row per article in the given order, header first.
func encodeCSV(w io.Writer, articles []article.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range articles {
		row := []string{a.Title, string(a.Source), a.URL, a.PublishedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
