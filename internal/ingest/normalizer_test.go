package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-news/internal/article"
)

// staticSource is a Source whose listing is fixed in memory.
type staticSource struct {
	name    article.Source
	base    string
	layouts []string
	items   []RawCandidate
	err     error
}

func (s *staticSource) Name() article.Source  { return s.name }
func (s *staticSource) BaseURL() string       { return s.base }
func (s *staticSource) TimeLayouts() []string { return s.layouts }
func (s *staticSource) FetchListing(context.Context) ([]RawCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	skift := NewSkiftSource(SourceOptions{})
	phocus := NewPhocusWireSource(SourceOptions{})

	tests := []struct {
		name    string
		src     Source
		raw     RawCandidate
		want    article.Article
		wantErr error
	}{
		{
			name: "absolute link and RFC3339 timestamp",
			src:  skift,
			raw: RawCandidate{
				Title:        "  Airlines   cut\n capacity ",
				Link:         "https://skift.com/2025/04/01/airlines-cut-capacity/",
				RawTimestamp: "2025-04-01T08:15:00-04:00",
			},
			want: article.Article{
				Title:       "Airlines cut capacity",
				Source:      article.SourceSkift,
				URL:         "https://skift.com/2025/04/01/airlines-cut-capacity/",
				PublishedAt: time.Date(2025, 4, 1, 12, 15, 0, 0, time.UTC),
			},
		},
		{
			name: "relative link resolved against base",
			src:  phocus,
			raw: RawCandidate{
				Title:        "Booking rolls out AI trip planner",
				Link:         "/news/booking-ai-trip-planner#comments",
				RawTimestamp: "March 31, 2025",
			},
			want: article.Article{
				Title:       "Booking rolls out AI trip planner",
				Source:      article.SourcePhocusWire,
				URL:         "https://www.phocuswire.com/news/booking-ai-trip-planner",
				PublishedAt: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "date-only timestamp",
			src:  skift,
			raw:  RawCandidate{Title: "Dated", Link: "/d", RawTimestamp: "2025-03-10"},
			want: article.Article{
				Title:       "Dated",
				Source:      article.SourceSkift,
				URL:         "https://skift.com/d",
				PublishedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "unparsable timestamp defaults to now",
			src:  phocus,
			raw:  RawCandidate{Title: "Title", Link: "/a", RawTimestamp: "Unknown"},
			want: article.Article{
				Title:       "Title",
				Source:      article.SourcePhocusWire,
				URL:         "https://www.phocuswire.com/a",
				PublishedAt: now.UTC(),
			},
		},
		{
			name: "missing timestamp defaults to now",
			src:  skift,
			raw:  RawCandidate{Title: "Title", Link: "https://skift.com/b"},
			want: article.Article{
				Title:       "Title",
				Source:      article.SourceSkift,
				URL:         "https://skift.com/b",
				PublishedAt: now.UTC(),
			},
		},
		{
			name:    "blank title rejected",
			src:     skift,
			raw:     RawCandidate{Title: " \n\t ", Link: "https://skift.com/c"},
			wantErr: ErrMissingTitle,
		},
		{
			name:    "missing link rejected",
			src:     skift,
			raw:     RawCandidate{Title: "Has a title"},
			wantErr: ErrMissingURL,
		},
		{
			name:    "non-http link rejected",
			src:     skift,
			raw:     RawCandidate{Title: "Has a title", Link: "javascript:void(0)"},
			wantErr: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.src, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Title, got.Title)
			assert.Equal(t, tt.want.Source, got.Source)
			assert.Equal(t, tt.want.URL, got.URL)
			assert.True(t, tt.want.PublishedAt.Equal(got.PublishedAt), "published_at %v, want %v", got.PublishedAt, tt.want.PublishedAt)
			assert.Equal(t, time.UTC, got.PublishedAt.Location())
		})
	}
}

func TestNormalize_BaseWithoutTrailingSlash(t *testing.T) {
	src := &staticSource{name: article.SourceSkift, base: "https://skift.com"}

	got, err := Normalize(RawCandidate{Title: "T", Link: "2025/01/01/story"}, src, time.Now())

	require.NoError(t, err)
	assert.Equal(t, "https://skift.com/2025/01/01/story", got.URL)
}
