package ingest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"travel-news/internal/article"
)

var (
	ErrMissingTitle = errors.New("candidate has no title")
	ErrMissingURL   = errors.New("candidate has no link")
	ErrInvalidURL   = errors.New("candidate link is not an absolute http(s) url")
)

// Normalize turns a raw candidate into a canonical article. Candidates without
// a title or link are rejected; an unusable timestamp falls back to now.
func Normalize(raw RawCandidate, src Source, now time.Time) (article.Article, error) {
	title := collapseWhitespace(raw.Title)
	if title == "" {
		return article.Article{}, ErrMissingTitle
	}

	link := strings.TrimSpace(raw.Link)
	if link == "" {
		return article.Article{}, ErrMissingURL
	}
	u, err := resolveURL(src.BaseURL(), link)
	if err != nil {
		return article.Article{}, err
	}

	return article.Article{
		Title:       title,
		Source:      src.Name(),
		URL:         u,
		PublishedAt: parseTimestamp(raw.RawTimestamp, src.TimeLayouts(), now),
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL makes link absolute against base and drops any fragment.
func resolveURL(base, link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, link, err)
	}

	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("%w: bad base url %q: %v", ErrInvalidURL, base, err)
		}
		ref = b.ResolveReference(ref)
	}

	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, link)
	}
	ref.Fragment = ""
	ref.RawFragment = ""
	return ref.String(), nil
}

// parseTimestamp returns the first successful parse in UTC. Layouts without a
// zone are read as UTC.
func parseTimestamp(value string, layouts []string, now time.Time) time.Time {
	value = collapseWhitespace(value)
	if value != "" {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC()
			}
		}
	}
	return now.UTC()
}
