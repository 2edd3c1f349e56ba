package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-news/internal/article"
)

// ErrSourceUnavailable means a source yielded nothing this run: the listing
// could not be fetched, answered non-2xx, timed out or held no items.
var ErrSourceUnavailable = errors.New("source unavailable")

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	DefaultTimeout   = 10 * time.Second
)

// RawCandidate is one list item as found in the listing markup, before any cleanup.
type RawCandidate struct {
	Title        string
	Link         string
	RawTimestamp string
}

type Source interface {
	Name() article.Source
	BaseURL() string
	// TimeLayouts are tried in order against RawCandidate.RawTimestamp.
	TimeLayouts() []string
	FetchListing(ctx context.Context) ([]RawCandidate, error)
}

type SourceOptions struct {
	ListingURL string // empty uses the source default
	BaseURL    string // empty uses the source default
	UserAgent  string
	Timeout    time.Duration
}

func (o SourceOptions) withDefaults(listingURL, baseURL string) SourceOptions {
	if o.ListingURL == "" {
		o.ListingURL = listingURL
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

type SourceFactory func(opts SourceOptions) Source

// Registry holds every known source variant. Adding a site means adding a
// Source implementation and an entry here.
var Registry = map[article.Source]SourceFactory{
	article.SourceSkift:      func(o SourceOptions) Source { return NewSkiftSource(o) },
	article.SourcePhocusWire: func(o SourceOptions) Source { return NewPhocusWireSource(o) },
}

// BuildSources resolves source names (case-insensitive) against the Registry.
// Listing and base URL overrides in opts are ignored here since they are per site.
func BuildSources(names []string, opts SourceOptions) ([]Source, error) {
	opts.ListingURL, opts.BaseURL = "", ""

	out := make([]Source, 0, len(names))
	seen := make(map[article.Source]struct{})
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key, factory, ok := lookupSource(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, factory(opts))
	}
	if len(out) == 0 {
		return nil, errors.New("no sources configured")
	}
	return out, nil
}

func lookupSource(name string) (article.Source, SourceFactory, bool) {
	for key, factory := range Registry {
		if strings.EqualFold(string(key), name) {
			return key, factory, true
		}
	}
	return "", nil, false
}

func unavailable(src article.Source, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src, err)
}
