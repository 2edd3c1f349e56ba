package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/gocolly/colly/v2"

	"travel-news/internal/article"
)

const (
	skiftBaseURL    = "https://skift.com"
	skiftListingURL = "https://skift.com"
)

var skiftTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SkiftSource scrapes the Skift homepage. Each <article> carries a link, an
// h2/h3 headline and usually a <time datetime="..."> element.
type SkiftSource struct {
	opts SourceOptions
}

func NewSkiftSource(opts SourceOptions) *SkiftSource {
	return &SkiftSource{opts: opts.withDefaults(skiftListingURL, skiftBaseURL)}
}

func (s *SkiftSource) Name() article.Source  { return article.SourceSkift }
func (s *SkiftSource) BaseURL() string       { return s.opts.BaseURL }
func (s *SkiftSource) TimeLayouts() []string { return skiftTimeLayouts }

func (s *SkiftSource) FetchListing(ctx context.Context) ([]RawCandidate, error) {
	out := make([]RawCandidate, 0, 32)
	err := visitListing(ctx, s.opts, "article", func(e *colly.HTMLElement) {
		link := e.DOM.Find("a[href]").First()
		heading := e.DOM.Find("h2, h3").First()
		if link.Length() == 0 || heading.Length() == 0 {
			return
		}

		href, _ := link.Attr("href")
		ts, _ := e.DOM.Find("time[datetime]").First().Attr("datetime")

		out = append(out, RawCandidate{
			Title:        heading.Text(),
			Link:         href,
			RawTimestamp: ts,
		})
	})
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}
	if len(out) == 0 {
		return nil, unavailable(s.Name(), errors.New("no articles on listing page"))
	}
	return out, nil
}
