package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"travel-news/internal/article"
)

const (
	phocusWireBaseURL    = "https://www.phocuswire.com"
	phocusWireListingURL = "https://www.phocuswire.com/Latest-News"
)

// example "March 4, 2025"
var phocusWireTimeLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
}

// PhocusWireSource scrapes the Latest-News page: ".list-view .item" blocks
// with an "a.title" link and an ".author" line ending in "| <date>".
type PhocusWireSource struct {
	opts SourceOptions
}

func NewPhocusWireSource(opts SourceOptions) *PhocusWireSource {
	return &PhocusWireSource{opts: opts.withDefaults(phocusWireListingURL, phocusWireBaseURL)}
}

func (p *PhocusWireSource) Name() article.Source  { return article.SourcePhocusWire }
func (p *PhocusWireSource) BaseURL() string       { return p.opts.BaseURL }
func (p *PhocusWireSource) TimeLayouts() []string { return phocusWireTimeLayouts }

func (p *PhocusWireSource) FetchListing(ctx context.Context) ([]RawCandidate, error) {
	out := make([]RawCandidate, 0, 32)
	err := visitListing(ctx, p.opts, ".list-view .item", func(e *colly.HTMLElement) {
		title := e.DOM.Find("a.title").First()
		if title.Length() == 0 {
			return
		}
		href, _ := title.Attr("href")

		out = append(out, RawCandidate{
			Title:        title.Text(),
			Link:         href,
			RawTimestamp: phocusWireDate(e.DOM.Find(".author").First()),
		})
	})
	if err != nil {
		return nil, unavailable(p.Name(), err)
	}
	if len(out) == 0 {
		return nil, unavailable(p.Name(), errors.New("no articles on listing page"))
	}
	return out, nil
}

// phocusWireDate takes the last "|" separated part of the author line,
// e.g. "By Jane Doe | March 4, 2025".
func phocusWireDate(author *goquery.Selection) string {
	if author.Length() == 0 {
		return ""
	}
	parts := strings.Split(author.Text(), "|")
	return strings.TrimSpace(parts[len(parts)-1])
}
